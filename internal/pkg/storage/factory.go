package storage

import (
	"context"
	"fmt"
	"strings"
)

const (
	DriverS3    = "s3"
	DriverMinIO = "minio"
)

// FactoryOptions carries the settings of every driver; only the selected one is read.
type FactoryOptions struct {
	S3    S3Options
	MinIO MinIOOptions
}

// NewFromDriver builds the Storage named by driver.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	switch strings.ToLower(driver) {
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMinIO:
		return NewMinIO(ctx, opts.MinIO)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
