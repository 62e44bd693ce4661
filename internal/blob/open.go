// Package blob selects the configured upload storage backend.
package blob

import (
	"context"
	"fmt"

	"horti-admin/internal/blob/core"
	"horti-admin/internal/blob/fs"
	"horti-admin/internal/blob/s3"
	"horti-admin/internal/core/config"
)

func Open(ctx context.Context, cfg config.Storage) (core.Store, error) {
	switch core.Driver(cfg.Driver) {
	case core.DriverFilesystem, "":
		return fs.New(cfg.Root)
	case core.DriverS3:
		return s3.New(ctx, s3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKey,
			SecretAccessKey: cfg.S3.SecretKey,
			PathStyle:       cfg.S3.PathStyle,
		})
	}
	return nil, fmt.Errorf("blob: unsupported driver %q", cfg.Driver)
}
