package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"ipcammap/internal/models"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
	now  func() time.Time
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS cameras (
	run_id       TEXT NOT NULL,
	ip           TEXT NOT NULL,
	port         INTEGER NOT NULL,
	latitude     DOUBLE PRECISION NOT NULL,
	longitude    DOUBLE PRECISION NOT NULL,
	country      TEXT NOT NULL,
	city         TEXT NOT NULL,
	org          TEXT NOT NULL,
	product      TEXT NOT NULL,
	query        TEXT NOT NULL,
	collected_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, ip)
);

CREATE INDEX IF NOT EXISTS idx_cameras_country ON cameras(country);
CREATE INDEX IF NOT EXISTS idx_cameras_collected_at ON cameras(collected_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// SaveRecords bulk-inserts records with the COPY protocol.
func (s *PostgresStore) SaveRecords(ctx context.Context, runID string, records []models.CameraRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	at := s.now().UTC()
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, row(runID, at, r))
	}
	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: COPY INTO %s", table)
	}
	return n, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
