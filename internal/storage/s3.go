package storage

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"ipcammap/internal/config"
)

// S3Service is a client for S3-compatible storage.
type S3Service struct {
	client *minio.Client
}

// NewS3Service connects to the S3-compatible endpoint named in cfg.
func NewS3Service(cfg config.S3Config) (*S3Service, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, eris.New("storage: missing one or more required settings: s3.endpoint, s3.access_key, s3.secret_key")
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, eris.Wrap(err, "storage: create minio client")
	}

	zap.L().Debug("connected to object storage", zap.String("endpoint", cfg.Endpoint))
	return &S3Service{client: minioClient}, nil
}

// CreateBucket makes the bucket unless it already exists.
func (s *S3Service) CreateBucket(ctx context.Context, bucketName string, location string) error {
	exists, err := s.client.BucketExists(ctx, bucketName)
	if err != nil {
		return eris.Wrapf(err, "storage: check bucket %s", bucketName)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
		return eris.Wrapf(err, "storage: make bucket %s", bucketName)
	}
	return nil
}

// UploadFile stores the local file at path under objectKey, overwriting any
// previous object.
func (s *S3Service) UploadFile(ctx context.Context, bucketName, objectKey, path, contentType string) error {
	info, err := s.client.FPutObject(ctx, bucketName, objectKey, path, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return eris.Wrapf(err, "storage: upload %s to %s/%s", path, bucketName, objectKey)
	}
	zap.L().Info("artifact uploaded",
		zap.String("bucket", bucketName),
		zap.String("key", objectKey),
		zap.Int64("size", info.Size),
	)
	return nil
}
