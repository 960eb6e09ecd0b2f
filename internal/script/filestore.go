package script

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Compile-time check that FileStore implements Store.
var _ Store = (*FileStore)(nil)

// FileStore wraps MemoryStore and persists the whole collection to a JSON
// file after every mutation. The file is reloaded on construction, so
// scripts and their video status survive a process restart. Writes go
// through a temp file and rename so a crash never leaves a half-written
// collection behind.
type FileStore struct {
	*MemoryStore
	path string
}

// NewFileStore creates a FileStore backed by the given JSON file.
// If the file exists its contents are loaded; a missing file starts empty.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("script: file store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("script: create data directory: %w", err)
	}

	fs := &FileStore{
		MemoryStore: NewMemoryStore(),
		path:        path,
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

// load reads the JSON file into the in-memory map.
func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("script: read store file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var scripts []*Script
	if err := json.Unmarshal(data, &scripts); err != nil {
		return fmt.Errorf("script: parse store file: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sc := range scripts {
		f.scripts[sc.ID] = sc
	}
	return nil
}

// flush writes the full collection to disk atomically.
func (f *FileStore) flush(ctx context.Context) error {
	scripts, err := f.MemoryStore.List(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(scripts, "", "  ")
	if err != nil {
		return fmt.Errorf("script: marshal store file: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("script: write store file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("script: replace store file: %w", err)
	}
	return nil
}

// Save persists a script and flushes the collection to disk.
func (f *FileStore) Save(ctx context.Context, sc *Script) error {
	if err := f.MemoryStore.Save(ctx, sc); err != nil {
		return err
	}
	return f.flush(ctx)
}

// Delete removes a script and flushes the collection to disk.
func (f *FileStore) Delete(ctx context.Context, id string) error {
	if err := f.MemoryStore.Delete(ctx, id); err != nil {
		return err
	}
	return f.flush(ctx)
}

// StartVideoAttempt applies the duplicate-work guard and flushes on success.
func (f *FileStore) StartVideoAttempt(ctx context.Context, id string, provider VideoProvider) error {
	if err := f.MemoryStore.StartVideoAttempt(ctx, id, provider); err != nil {
		return err
	}
	return f.flush(ctx)
}

// SetVideoStatus overwrites the video record and flushes to disk.
func (f *FileStore) SetVideoStatus(ctx context.Context, id string, video VideoJob) error {
	if err := f.MemoryStore.SetVideoStatus(ctx, id, video); err != nil {
		return err
	}
	return f.flush(ctx)
}
