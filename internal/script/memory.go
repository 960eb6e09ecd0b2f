package script

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory implementation of Store.
// It uses a map with RWMutex for thread-safe access.
// FileStore wraps it to add persistence across restarts.
type MemoryStore struct {
	mu      sync.RWMutex
	scripts map[string]*Script
}

// NewMemoryStore creates a new in-memory script store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scripts: make(map[string]*Script),
	}
}

// Save persists a script to the in-memory storage.
// Creates a clone to avoid external mutations.
func (m *MemoryStore) Save(_ context.Context, sc *Script) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[sc.ID] = sc.Clone()
	return nil
}

// FindByID retrieves a script by its ID.
// Returns a clone to prevent external mutations.
func (m *MemoryStore) FindByID(_ context.Context, id string) (*Script, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sc, ok := m.scripts[id]
	if !ok {
		return nil, ErrScriptNotFound
	}
	return sc.Clone(), nil
}

// List returns all scripts, newest first.
func (m *MemoryStore) List(_ context.Context) ([]*Script, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*Script, 0, len(m.scripts))
	for _, sc := range m.scripts {
		result = append(result, sc.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a script from storage.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scripts[id]; !ok {
		return ErrScriptNotFound
	}
	delete(m.scripts, id)
	return nil
}

// StartVideoAttempt atomically moves an idle script to pending.
// The check and the write happen under one lock so two concurrent start
// requests for the same script cannot both succeed.
func (m *MemoryStore) StartVideoAttempt(_ context.Context, id string, provider VideoProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.scripts[id]
	if !ok {
		return ErrScriptNotFound
	}
	if !sc.Video.Status.CanTransitionTo(VideoPending) {
		return ErrVideoActive
	}
	sc.Video = VideoJob{
		Status:    VideoPending,
		Provider:  provider,
		UpdatedAt: time.Now(),
	}
	return nil
}

// SetVideoStatus overwrites the video job record of a script.
func (m *MemoryStore) SetVideoStatus(_ context.Context, id string, video VideoJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.scripts[id]
	if !ok {
		return ErrScriptNotFound
	}
	if video.UpdatedAt.IsZero() {
		video.UpdatedAt = time.Now()
	}
	sc.Video = video
	return nil
}
