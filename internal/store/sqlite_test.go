package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipcammap/internal/config"
	"ipcammap/internal/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func countRows(t *testing.T, st *SQLiteStore, runID string) int {
	t.Helper()
	var n int
	require.NoError(t, st.db.QueryRow("SELECT COUNT(*) FROM cameras WHERE run_id = ?", runID).Scan(&n))
	return n
}

func TestSQLite_SaveRecords(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	records := []models.CameraRecord{
		{Address: "1.1.1.1", Port: 80, Latitude: 48.85, Longitude: 2.35, Country: "France", City: "Paris",
			Organization: "Orange", Product: "Hikvision", SourceQuery: "webcam"},
		{Address: "2.2.2.2", Port: 8080, Latitude: -33.45, Longitude: -70.66, Country: "Chile", City: "Santiago",
			Organization: models.Unknown, Product: models.Unknown, SourceQuery: "camera"},
	}

	n, err := st.SaveRecords(ctx, "run-1", records)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 2, countRows(t, st, "run-1"))

	var city, org string
	var lat float64
	require.NoError(t, st.db.QueryRow(
		"SELECT city, org, latitude FROM cameras WHERE run_id = ? AND ip = ?", "run-1", "1.1.1.1",
	).Scan(&city, &org, &lat))
	assert.Equal(t, "Paris", city)
	assert.Equal(t, "Orange", org)
	assert.InDelta(t, 48.85, lat, 1e-9)
}

func TestSQLite_SaveRecords_ReplacesWithinRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.SaveRecords(ctx, "run-1", []models.CameraRecord{{Address: "1.1.1.1", City: "Paris"}})
	require.NoError(t, err)
	_, err = st.SaveRecords(ctx, "run-1", []models.CameraRecord{{Address: "1.1.1.1", City: "Lyon"}})
	require.NoError(t, err)
	_, err = st.SaveRecords(ctx, "run-2", []models.CameraRecord{{Address: "1.1.1.1", City: "Nice"}})
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, st, "run-1"))
	assert.Equal(t, 1, countRows(t, st, "run-2"))

	var city string
	require.NoError(t, st.db.QueryRow("SELECT city FROM cameras WHERE run_id = 'run-1'").Scan(&city))
	assert.Equal(t, "Lyon", city)
}

func TestSQLite_SaveRecords_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	n, err := st.SaveRecords(context.Background(), "run-1", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Migrate(context.Background()))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx, config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "cams.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	assert.IsType(t, &SQLiteStore{}, st)

	_, err = New(ctx, config.StoreConfig{Driver: "mongo", DatabaseURL: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
