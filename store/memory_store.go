package store

import (
	"context"
	"sync"
)

// MemoryKV keeps everything in process. Used for development and tests.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = append([]byte(nil), value...)
	return nil
}
