package storage

import (
	"context"
	"io"
)

// ObjectStorage is the template-library store. Implementations back the
// upload/list endpoints; keys are opaque paths like "templates/<uuid>.png".
type ObjectStorage interface {
	// EnsureBucket prepares the backing bucket or directory.
	EnsureBucket(ctx context.Context) error

	// Upload stores an object.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves an object.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns the keys under a prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// GetURL returns the public URL for accessing an object.
	GetURL(key string) string

	// Delete removes an object.
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object exists.
	Exists(ctx context.Context, key string) (bool, error)
}
