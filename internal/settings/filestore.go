package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Compile-time check that FileStore implements Store.
var _ Store = (*FileStore)(nil)

// FileStore reads and writes settings as a JSON file. Every Load re-reads
// the file so edits (manual or via the settings endpoint) are picked up by
// the next request. When the file does not exist yet, Load returns the
// defaults the store was constructed with, typically seeded from the
// environment.
type FileStore struct {
	mu       sync.Mutex
	path     string
	defaults Settings
}

// NewFileStore creates a settings store backed by the given JSON file.
func NewFileStore(path string, defaults Settings) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("settings: file store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("settings: create data directory: %w", err)
	}
	return &FileStore{path: path, defaults: defaults}, nil
}

// Load reads the settings file. It never caches.
func (f *FileStore) Load(_ context.Context) (*Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return f.defaults.Clone(), nil
		}
		return nil, fmt.Errorf("settings: read file: %w", err)
	}

	s := f.defaults.Clone()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("settings: parse file: %w", err)
	}
	return s, nil
}

// Save writes the settings file atomically.
func (f *FileStore) Save(_ context.Context, s *Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("settings: write file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("settings: replace file: %w", err)
	}
	return nil
}
