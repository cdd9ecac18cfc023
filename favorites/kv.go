package favorites

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a KV when the key has never been set
var ErrNotFound = errors.New("key not found")

// KV is the persistent key-value storage behind the favorites store
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryKV keeps values in process memory
type MemoryKV struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryKV creates an empty in-memory KV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op
func (m *MemoryKV) Close() error { return nil }
