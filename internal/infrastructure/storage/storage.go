// Package storage implements media.Storage on S3-compatible buckets and the
// local filesystem.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/domain/media"
)

// Backend is a media.Storage that can report its health.
type Backend interface {
	media.Storage
	Health(ctx context.Context) error
}

// New selects the backend named by MEDIA_STORAGE_BACKEND.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Backend, error) {
	switch {
	case cfg.IsS3Storage():
		return NewS3Storage(ctx, cfg, log)
	case cfg.IsLocalStorage():
		return NewLocalStorage(cfg, log)
	default:
		return nil, fmt.Errorf("unknown MEDIA_STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
