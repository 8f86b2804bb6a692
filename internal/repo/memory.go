package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// MemoryKV is an in-process KV. It is not durable and is meant for tests and
// throwaway runs (STORE_DRIVER=memory).
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

// Get returns a copy of the bytes stored under key.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("repo.MemoryKV.Get: %w", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("repo.MemoryKV.Get %q: %w", key, domain.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("repo.MemoryKV.Set: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Remove deletes key.
func (m *MemoryKV) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("repo.MemoryKV.Remove: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Keys returns the number of keys currently held.
func (m *MemoryKV) Keys() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
