package storage

import (
	"context"
	"io"
	"time"
)

// Package storage contains the blob store abstraction for captured audio
// and media files. One Storage is scoped to one bucket; the service holds
// two instances (audio and media).

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
}

// Storage is a bucket-scoped blob store. Implementations must be safe for
// concurrent use and rely on streaming I/O only.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) error
	// Delete removes an object by key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
