package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ipcammap/internal/app"
	"ipcammap/internal/config"
	"ipcammap/pkg/graceful"
)

var (
	cfg *config.Config

	configFile string
	limit      int
	envFile    string
	mapOut     string
	csvOut     string
)

var rootCmd = &cobra.Command{
	Use:           "ipcammap",
	Short:         "Map internet-exposed IP cameras found through Shodan",
	Long:          "Runs a fixed set of Shodan searches for IP cameras, deduplicates the geolocated results and writes an interactive heat map plus a CSV table.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd, c)
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := graceful.Context(cmd.Context())
		defer cancel()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Shodan IP Camera Map Generator")
		fmt.Fprintln(out, strings.Repeat("=", 40))

		_, err := app.New(cfg, app.WithStdout(out)).Run(ctx)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configFile, "config", "", "path to a YAML config file (default ./config.yaml if present)")
	f.IntVar(&limit, "limit", 500, "max raw search matches to inspect across all queries")
	f.StringVar(&envFile, "env-file", ".env", "file holding SHODAN_API_KEY")
	f.StringVar(&mapOut, "map-out", "ipcam_map.html", "map document output path")
	f.StringVar(&csvOut, "csv-out", "ipcam_data.csv", "CSV output path")
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("limit") {
		c.Search.Limit = limit
	}
	if flags.Changed("env-file") {
		c.Credentials.EnvFile = envFile
	}
	if flags.Changed("map-out") {
		c.Output.MapFile = mapOut
	}
	if flags.Changed("csv-out") {
		c.Output.CSVFile = csvOut
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
