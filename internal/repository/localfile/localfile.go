// Package localfile persists memos and projects as JSON array files on
// disk, standing in for the hosted database in mock mode. Every mutation
// is a whole-file read-modify-write without locking, so concurrent writers
// can lose updates (last writer wins). That trade-off fits the
// single-user, single-instance setup this mode exists for.
package localfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	memosFile    = "memos.json"
	projectsFile = "projects.json"
)

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}

// readAll loads the file as a JSON array. A missing file reads as an empty
// list; unreadable content also reads as empty so a corrupt file never
// wedges the store.
func readAll[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeAll[T any](path string, items []T) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
