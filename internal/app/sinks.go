package app

import (
	"context"
	"errors"
	"mime"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"ipcammap/internal/keys"
	"ipcammap/internal/models"
)

// runSinks delivers the run to every enabled sink. A failing sink does not
// stop the others; all failures are returned joined.
func (r *Runner) runSinks(ctx context.Context, runID string, records []models.CameraRecord, files []string) error {
	var errs []error
	if r.cfg.S3.Enabled() {
		errs = append(errs, r.upload(ctx, runID, files))
	}
	if r.cfg.Kafka.Enabled() {
		errs = append(errs, r.publish(ctx, runID, records))
	}
	if r.cfg.Store.Enabled() {
		errs = append(errs, r.persist(ctx, runID, records))
	}
	for _, err := range errs {
		if err != nil {
			zap.L().Error("sink failed", zap.String("run_id", runID), zap.Error(err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) upload(ctx context.Context, runID string, files []string) error {
	up, err := r.newUploader(r.cfg.S3)
	if err != nil {
		return err
	}
	if err := up.CreateBucket(ctx, r.cfg.S3.Bucket, r.cfg.S3.Region); err != nil {
		return err
	}
	for _, path := range files {
		if err := up.UploadFile(ctx, r.cfg.S3.Bucket, keys.Artifact(runID, path), path, contentType(path)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) publish(ctx context.Context, runID string, records []models.CameraRecord) (err error) {
	p, err := r.newPublisher(r.cfg.Kafka)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, p.Close())
	}()
	return p.Publish(ctx, runID, records)
}

func (r *Runner) persist(ctx context.Context, runID string, records []models.CameraRecord) error {
	st, err := r.openStore(ctx, r.cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	n, err := st.SaveRecords(ctx, runID, records)
	if err != nil {
		return err
	}
	zap.L().Info("records stored", zap.String("driver", r.cfg.Store.Driver), zap.Int64("rows", n))
	if n != int64(len(records)) {
		return eris.Errorf("app: stored %d of %d records", n, len(records))
	}
	return nil
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".geojson":
		return "application/geo+json"
	case ".csv":
		return "text/csv"
	}
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}
