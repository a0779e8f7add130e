package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// localDisk implements the Storage interface over a directory tree. It
// backs mock mode: objects are plain files under the root, keyed by their
// slash-separated storage path.
type localDisk struct {
	root string
}

// NewLocalDisk roots a Storage at dir, creating the directory if missing.
func NewLocalDisk(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &localDisk{root: dir}, nil
}

func (l *localDisk) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

func (l *localDisk) Put(_ context.Context, key string, r io.Reader, _ PutObjectOptions) error {
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create object file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write object file: %w", err)
	}
	return f.Close()
}

func (l *localDisk) Delete(_ context.Context, key string) error {
	err := os.Remove(l.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// PresignGet returns the object's path on disk. Mock mode has no URL
// signer; callers treat the value as opaque.
func (l *localDisk) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return l.path(key), nil
}
