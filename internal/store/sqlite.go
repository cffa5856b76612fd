package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"ipcammap/internal/models"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS cameras (
	run_id       TEXT NOT NULL,
	ip           TEXT NOT NULL,
	port         INTEGER NOT NULL,
	latitude     REAL NOT NULL,
	longitude    REAL NOT NULL,
	country      TEXT NOT NULL,
	city         TEXT NOT NULL,
	org          TEXT NOT NULL,
	product      TEXT NOT NULL,
	query        TEXT NOT NULL,
	collected_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (run_id, ip)
);

CREATE INDEX IF NOT EXISTS idx_cameras_country ON cameras(country);
CREATE INDEX IF NOT EXISTS idx_cameras_collected_at ON cameras(collected_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// SaveRecords inserts records in one transaction. A record already stored
// for the same run and address is replaced.
func (s *SQLiteStore) SaveRecords(ctx context.Context, runID string, records []models.CameraRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders,
	))
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	at := s.now().UTC()
	var n int64
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, row(runID, at, r)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert %s", r.Address)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
