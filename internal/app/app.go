// Package app wires one collection run together: credentials, collection,
// enrichment, rendering, exports and the optional sinks.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"ipcammap/internal/collector"
	"ipcammap/internal/config"
	"ipcammap/internal/enrich"
	"ipcammap/internal/env"
	"ipcammap/internal/export"
	"ipcammap/internal/metrics"
	"ipcammap/internal/models"
	"ipcammap/internal/render"
	"ipcammap/internal/stats"
	"ipcammap/internal/storage"
	"ipcammap/internal/store"
	"ipcammap/pkg/kafkaclient"
	"ipcammap/pkg/location"
	"ipcammap/pkg/shodan"
)

// Uploader stores run artifacts in object storage.
type Uploader interface {
	CreateBucket(ctx context.Context, bucketName string, location string) error
	UploadFile(ctx context.Context, bucketName, objectKey, path, contentType string) error
}

// Publisher sends records to a message broker.
type Publisher interface {
	Publish(ctx context.Context, runID string, records []models.CameraRecord) error
	Close() error
}

// Report describes a finished run.
type Report struct {
	RunID     string
	Collected int
	Unique    int
	Failed    int
	Files     []string
	Summary   stats.Summary
}

// Runner executes a single collection run.
type Runner struct {
	cfg    *config.Config
	stdout io.Writer

	newSearcher  func(apiKey string) collector.Searcher
	newGeocoder  func() enrich.ReverseGeocoder
	newUploader  func(cfg config.S3Config) (Uploader, error)
	newPublisher func(cfg config.KafkaConfig) (Publisher, error)
	openStore    func(ctx context.Context, cfg config.StoreConfig) (store.Store, error)
	newRunID     func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdout sends console output to w.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.stdout = w }
}

// WithSearcherFactory replaces the search API client.
func WithSearcherFactory(f func(apiKey string) collector.Searcher) Option {
	return func(r *Runner) { r.newSearcher = f }
}

// WithGeocoder replaces the reverse geocoder.
func WithGeocoder(g enrich.ReverseGeocoder) Option {
	return func(r *Runner) { r.newGeocoder = func() enrich.ReverseGeocoder { return g } }
}

// WithUploaderFactory replaces the object storage client.
func WithUploaderFactory(f func(cfg config.S3Config) (Uploader, error)) Option {
	return func(r *Runner) { r.newUploader = f }
}

// WithPublisherFactory replaces the broker producer.
func WithPublisherFactory(f func(cfg config.KafkaConfig) (Publisher, error)) Option {
	return func(r *Runner) { r.newPublisher = f }
}

// WithStoreOpener replaces the record store constructor.
func WithStoreOpener(f func(ctx context.Context, cfg config.StoreConfig) (store.Store, error)) Option {
	return func(r *Runner) { r.openStore = f }
}

// WithRunID fixes the run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) { r.newRunID = func() string { return id } }
}

// New returns a Runner for cfg using the real clients unless overridden.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		stdout: os.Stdout,
		newSearcher: func(apiKey string) collector.Searcher {
			return shodan.New(apiKey, shodan.WithBaseURL(cfg.Search.BaseURL))
		},
		newGeocoder: func() enrich.ReverseGeocoder {
			return location.NewClient(cfg.Geocode.BaseURL)
		},
		newUploader: func(c config.S3Config) (Uploader, error) {
			svc, err := storage.NewS3Service(c)
			if err != nil {
				return nil, err
			}
			return svc, nil
		},
		newPublisher: func(c config.KafkaConfig) (Publisher, error) {
			return kafkaclient.NewProducer(c.Broker, c.Topic), nil
		},
		openStore: store.New,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs the whole batch. A nil error with a zero Unique count means
// nothing with location data was found and no files were written.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	apiKey, err := env.LoadAPIKey(r.cfg.Credentials.EnvFile)
	if err != nil {
		fmt.Fprintf(r.stdout, "Error: Could not load Shodan API key from %s\n", r.cfg.Credentials.EnvFile)
		return nil, err
	}

	report := &Report{RunID: r.newRunID()}
	zap.L().Info("run started", zap.String("run_id", report.RunID), zap.Int("limit", r.cfg.Search.Limit))
	runMetrics := metrics.NewRun()

	fmt.Fprintln(r.stdout, "Searching for IP cameras...")
	c := collector.New(r.newSearcher(apiKey),
		collector.WithPerQueryMax(r.cfg.Search.PerQueryMax),
		collector.WithProgress(r.stdout),
	)
	res := c.Collect(ctx, r.cfg.Search.Limit)
	for _, o := range res.Outcomes {
		runMetrics.ObserveQuery(o.Matches, o.Kept, o.Err)
	}
	report.Collected = len(res.Records)
	report.Failed = res.Failed()
	if err := ctx.Err(); err != nil {
		return report, eris.Wrap(err, "app: collect")
	}

	if len(res.Records) == 0 {
		fmt.Fprintln(r.stdout, "No IP cameras found with location data")
		return report, r.writeMetrics(runMetrics)
	}

	records := render.Dedupe(res.Records)
	if err := r.enrich(ctx, records); err != nil {
		return report, err
	}

	fmt.Fprintln(r.stdout, "Creating map...")
	m, unique, err := render.Render(records, r.mapOptions())
	if err != nil {
		return report, eris.Wrap(err, "app: render")
	}
	report.Unique = len(unique)
	runMetrics.UniqueCameras.Set(float64(len(unique)))
	fmt.Fprintf(r.stdout, "Found %d unique IP cameras with location data\n", len(unique))

	if err := r.writeArtifacts(m, unique, report); err != nil {
		return report, err
	}

	report.Summary = stats.Summarize(unique, r.cfg.Output.TopCountries)
	report.Summary.Print(r.stdout)

	sinkErr := r.runSinks(ctx, report.RunID, unique, report.Files)
	return report, errors.Join(sinkErr, r.writeMetrics(runMetrics))
}

func (r *Runner) mapOptions() render.Options {
	opts := render.DefaultOptions()
	if r.cfg.Map.Title != "" {
		opts.Title = r.cfg.Map.Title
	}
	if r.cfg.Map.Zoom > 0 {
		opts.Zoom = r.cfg.Map.Zoom
	}
	if r.cfg.Map.TileURL != "" {
		opts.TileURL = r.cfg.Map.TileURL
	}
	if r.cfg.Map.TileAttribution != "" {
		opts.TileAttribution = r.cfg.Map.TileAttribution
	}
	if r.cfg.Map.PopupMaxWidth > 0 {
		opts.PopupMaxWidth = r.cfg.Map.PopupMaxWidth
	}
	return opts
}

// enrich applies the configured rewrites. With none enabled the records are
// left exactly as collected.
func (r *Runner) enrich(ctx context.Context, records []models.CameraRecord) error {
	var steps []enrich.Named[models.CameraRecord]
	if r.cfg.Enrich.NormalizeCountry {
		steps = append(steps, enrich.NewStep[models.CameraRecord]("normalize-country", enrich.NormalizeCountry))
	}
	if r.cfg.Geocode.Reverse {
		steps = append(steps, enrich.NewStep("reverse-geocode", enrich.FillUnknownPlace(r.newGeocoder())))
	}
	if len(steps) == 0 {
		return nil
	}
	failures, err := enrich.NewPipeline(steps...).Process(ctx, records)
	if err != nil {
		return eris.Wrap(err, "app: enrich")
	}
	if failures > 0 {
		zap.L().Warn("some records were not enriched", zap.Int("failures", failures))
	}
	return nil
}

// writeArtifacts saves the map and CSV, then any optional exports. Paths
// are appended to report.Files as they are written. If any write fails the
// files already written by this call are removed.
func (r *Runner) writeArtifacts(m *render.Map, records []models.CameraRecord, report *Report) (err error) {
	out := r.cfg.Output
	defer func() {
		if err == nil {
			return
		}
		for _, path := range report.Files {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				zap.L().Warn("could not remove artifact", zap.String("path", path), zap.Error(rmErr))
			}
		}
		report.Files = nil
	}()

	if err := m.Save(out.MapFile); err != nil {
		return err
	}
	report.Files = append(report.Files, out.MapFile)
	fmt.Fprintf(r.stdout, "Map saved as %s\n", out.MapFile)

	if err := export.SaveCSV(out.CSVFile, records); err != nil {
		return err
	}
	report.Files = append(report.Files, out.CSVFile)
	fmt.Fprintf(r.stdout, "Data saved as %s\n", out.CSVFile)

	if out.GeoJSONFile != "" {
		if err := export.SaveGeoJSON(out.GeoJSONFile, records); err != nil {
			return err
		}
		report.Files = append(report.Files, out.GeoJSONFile)
		fmt.Fprintf(r.stdout, "GeoJSON saved as %s\n", out.GeoJSONFile)
	}
	if out.XLSXFile != "" {
		if err := export.SaveXLSX(out.XLSXFile, records); err != nil {
			return err
		}
		report.Files = append(report.Files, out.XLSXFile)
		fmt.Fprintf(r.stdout, "Spreadsheet saved as %s\n", out.XLSXFile)
	}
	return nil
}

func (r *Runner) writeMetrics(m *metrics.Run) error {
	if r.cfg.Metrics.Textfile == "" {
		return nil
	}
	return m.WriteTextfile(r.cfg.Metrics.Textfile)
}
