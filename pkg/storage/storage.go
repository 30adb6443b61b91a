package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/studyshare/extraction-service/config"
	"github.com/studyshare/extraction-service/pkg/logger"
	"github.com/studyshare/extraction-service/pkg/storage/minio"
	"github.com/studyshare/extraction-service/pkg/storage/s3"
)

// Storage parks uploaded documents between enqueue and worker pickup.
type Storage interface {
	// Store writes the file and returns its storage key.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// CleanupBefore removes objects last modified before the threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// New builds the storage backend selected by the configuration.
func New(cfg config.StorageConfig, log logger.Logger) (Storage, error) {
	switch cfg.Backend {
	case "s3":
		return s3.NewStorage(cfg.S3, log)
	case "minio":
		return minio.NewStorage(cfg.Minio, log)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
