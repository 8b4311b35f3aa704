// Package storage puts uploaded files into an object store and hands out
// time limited download links for them.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnknownDriver is returned by NewFromDriver for an unsupported driver.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// Storage is a single bucket of objects.
type Storage interface {
	io.Closer

	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL that downloads key until expiry elapses.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// PutOptions describes an upload. Size -1 means unknown.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	UpdatedAt   time.Time
}
