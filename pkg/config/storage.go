package config

import (
	"context"
	"fmt"

	"github.com/marmos91/vfsmount/pkg/backend"
	"github.com/marmos91/vfsmount/pkg/mount"
)

// CreateStorage creates the backend described by cfg.
func CreateStorage(ctx context.Context, cfg StorageConfig) (mount.Storage, error) {
	switch cfg.Type {
	case backend.TypeLocal:
		return backend.NewLocal(cfg.Root)
	case backend.TypeS3:
		return backend.NewS3(ctx, backend.S3Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			KeyPrefix:       cfg.KeyPrefix,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}
