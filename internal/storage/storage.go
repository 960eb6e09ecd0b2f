// Package storage provides archive storage for rendered videos.
// It defines the Storage interface (port) for hexagonal architecture and
// implementations for local disk and S3.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrS3NotConfigured is returned when S3 operations are attempted
// without proper configuration.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// Storage defines the interface for keeping durable copies of rendered
// videos. Provider result URLs can expire; archiving copies the asset
// somewhere under our control.
type Storage interface {
	// SaveLocal writes data to the archive directory and returns the
	// file path. The name parameter is used as a hint for the filename.
	SaveLocal(ctx context.Context, name string, data io.Reader) (path string, err error)

	// Open reads an archived file. The caller is responsible for closing
	// the returned ReadCloser.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Upload pushes data to S3 and returns the public URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	Upload(ctx context.Context, key string, data io.Reader) (url string, err error)
}
