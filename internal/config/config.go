package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Credentials CredentialsConfig `yaml:"credentials" mapstructure:"credentials"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Map         MapConfig         `yaml:"map" mapstructure:"map"`
	Geocode     GeocodeConfig     `yaml:"geocode" mapstructure:"geocode"`
	Enrich      EnrichConfig      `yaml:"enrich" mapstructure:"enrich"`
	S3          S3Config          `yaml:"s3" mapstructure:"s3"`
	Kafka       KafkaConfig       `yaml:"kafka" mapstructure:"kafka"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// SearchConfig configures the host search API.
type SearchConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Limit       int    `yaml:"limit" mapstructure:"limit"`
	PerQueryMax int    `yaml:"per_query_max" mapstructure:"per_query_max"`
}

// CredentialsConfig points at the key-value file holding the API key.
type CredentialsConfig struct {
	EnvFile string `yaml:"env_file" mapstructure:"env_file"`
}

// OutputConfig names the artifacts written by a run. Empty optional paths
// disable that artifact.
type OutputConfig struct {
	MapFile      string `yaml:"map_file" mapstructure:"map_file"`
	CSVFile      string `yaml:"csv_file" mapstructure:"csv_file"`
	GeoJSONFile  string `yaml:"geojson_file" mapstructure:"geojson_file"`
	XLSXFile     string `yaml:"xlsx_file" mapstructure:"xlsx_file"`
	TopCountries int    `yaml:"top_countries" mapstructure:"top_countries"`
}

// MapConfig configures the rendered map document.
type MapConfig struct {
	Title           string `yaml:"title" mapstructure:"title"`
	Zoom            int    `yaml:"zoom" mapstructure:"zoom"`
	TileURL         string `yaml:"tile_url" mapstructure:"tile_url"`
	TileAttribution string `yaml:"tile_attribution" mapstructure:"tile_attribution"`
	PopupMaxWidth   int    `yaml:"popup_max_width" mapstructure:"popup_max_width"`
}

// GeocodeConfig configures optional reverse geocoding.
type GeocodeConfig struct {
	Reverse bool   `yaml:"reverse" mapstructure:"reverse"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// EnrichConfig toggles rewrites of collected attributes. All are off by
// default so exported rows keep the values the search API returned.
type EnrichConfig struct {
	NormalizeCountry bool `yaml:"normalize_country" mapstructure:"normalize_country"`
}

// S3Config configures artifact upload. Upload is skipped when Bucket is empty.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	Region    string `yaml:"region" mapstructure:"region"`
}

// Enabled reports whether artifacts should be uploaded.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// KafkaConfig configures record publishing. Publishing is skipped when Topic
// is empty.
type KafkaConfig struct {
	Broker string `yaml:"broker" mapstructure:"broker"`
	Topic  string `yaml:"topic" mapstructure:"topic"`
}

// Enabled reports whether records should be published.
func (c KafkaConfig) Enabled() bool { return c.Topic != "" }

// StoreConfig configures the record store. The store is skipped when Driver
// is empty.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Enabled reports whether records should be persisted.
func (c StoreConfig) Enabled() bool { return c.Driver != "" }

// MetricsConfig configures the Prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from IPCAMMAP_ prefixed environment variables and
// a YAML file. When configFile is empty an optional config.yaml in the
// working directory is used; an explicit configFile must exist.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("IPCAMMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("search.base_url", "https://api.shodan.io")
	v.SetDefault("search.limit", 500)
	v.SetDefault("search.per_query_max", 100)
	v.SetDefault("credentials.env_file", ".env")
	v.SetDefault("output.map_file", "ipcam_map.html")
	v.SetDefault("output.csv_file", "ipcam_data.csv")
	v.SetDefault("output.geojson_file", "")
	v.SetDefault("output.xlsx_file", "")
	v.SetDefault("output.top_countries", 5)
	v.SetDefault("map.title", "IP Camera Map")
	v.SetDefault("map.zoom", 2)
	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.tile_attribution", `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`)
	v.SetDefault("map.popup_max_width", 300)
	v.SetDefault("geocode.reverse", false)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("enrich.normalize_country", false)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.use_ssl", false)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("kafka.broker", "localhost:9092")
	v.SetDefault("kafka.topic", "")
	v.SetDefault("store.driver", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a run cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.Search.BaseURL == "" {
		missing = append(missing, "search.base_url")
	}
	if c.Credentials.EnvFile == "" {
		missing = append(missing, "credentials.env_file")
	}
	if c.Output.MapFile == "" {
		missing = append(missing, "output.map_file")
	}
	if c.Output.CSVFile == "" {
		missing = append(missing, "output.csv_file")
	}
	if c.S3.Enabled() && c.S3.Endpoint == "" {
		missing = append(missing, "s3.endpoint")
	}
	if c.Kafka.Enabled() && c.Kafka.Broker == "" {
		missing = append(missing, "kafka.broker")
	}
	if c.Store.Enabled() && c.Store.DatabaseURL == "" {
		missing = append(missing, "store.database_url")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required fields: %s", strings.Join(missing, ", "))
	}
	if c.Search.Limit < 0 {
		return eris.Errorf("config: search.limit must not be negative, got %d", c.Search.Limit)
	}
	if c.Search.PerQueryMax <= 0 {
		return eris.Errorf("config: search.per_query_max must be positive, got %d", c.Search.PerQueryMax)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
