// Package export writes the deduplicated camera table to tabular and
// geographic file formats.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"ipcammap/internal/models"
)

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []models.CameraRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.CSVHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", r.Address)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// SaveCSV writes records as CSV to path.
func SaveCSV(path string, records []models.CameraRecord) error {
	return SaveFile(path, func(w io.Writer) error { return WriteCSV(w, records) })
}

// SaveFile writes a file through write and moves it into place only once
// write succeeded, so path never holds a partial file.
func SaveFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return eris.Wrapf(err, "export: chmod %s", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return eris.Wrapf(err, "export: rename %s", path)
	}
	return nil
}
