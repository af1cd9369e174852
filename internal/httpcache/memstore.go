package httpcache

import (
	"context"
	"sync"
	"time"
)

// MemStore is an in-process Store used by tests and dry-run deployments
// where redis is unavailable.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemStore creates an empty in-process store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]*Entry)}
}

func (m *MemStore) GetResponse(_ context.Context, key string) (*Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry, true, nil
}

func (m *MemStore) SetResponse(_ context.Context, key string, entry *Entry, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
	return nil
}

func (m *MemStore) DeleteResponse(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (m *MemStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	now := time.Now()
	for key, entry := range m.entries {
		if now.After(entry.ExpiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}
