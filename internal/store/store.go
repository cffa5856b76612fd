// Package store persists the deduplicated camera records of each run.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"ipcammap/internal/config"
	"ipcammap/internal/models"
)

const table = "cameras"

// columns is the column order shared by both drivers.
var columns = []string{
	"run_id", "ip", "port", "latitude", "longitude",
	"country", "city", "org", "product", "query", "collected_at",
}

// Store defines the persistence interface for collected cameras.
type Store interface {
	SaveRecords(ctx context.Context, runID string, records []models.CameraRecord) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New opens the store selected by cfg.Driver and applies its migration.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Driver {
	case "postgres":
		st, err = NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite":
		st, err = NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func row(runID string, at time.Time, r models.CameraRecord) []any {
	return []any{
		runID, r.Address, r.Port, r.Latitude, r.Longitude,
		r.Country, r.City, r.Organization, r.Product, r.SourceQuery, at,
	}
}
