package kvstore

import (
	"context"
	"sync"
)

// MemoryBackend keeps values in process memory. Used for tests and ephemeral runs.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory constructs an empty MemoryBackend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a copy of value under key.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.mu.Lock()
	m.values[key] = stored
	m.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (m *MemoryBackend) Ping(context.Context) error {
	return nil
}
