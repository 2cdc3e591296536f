// Package options stores named option blobs, the way a CMS keeps plugin
// settings in a single row per option name.
package options

import (
	"context"
	"sync"
)

// Store reads and writes raw option values by name.
type Store interface {
	// Get returns the stored value and whether it exists.
	Get(ctx context.Context, name string) ([]byte, bool, error)
	// Set creates or replaces the value stored under name.
	Set(ctx context.Context, name string, value []byte) error
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, name string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[name]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, name string, value []byte) error {
	m.mu.Lock()
	m.values[name] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}
