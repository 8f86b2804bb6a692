package repo

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// KeyLocks serializes read-modify-write cycles per storage key. Only one
// mutation against a given key is in flight at a time; waiting honours the
// caller's context, so a stalled holder surfaces as a timeout instead of a
// hang.
type KeyLocks struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

// NewKeyLocks returns an empty lock registry. Share one registry between
// every Collection and Value that may touch the same keys.
func NewKeyLocks() *KeyLocks {
	return &KeyLocks{sems: make(map[string]*semaphore.Weighted)}
}

// Lock blocks until key is free or ctx is done. The returned func releases it.
func (l *KeyLocks) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	sem, ok := l.sems[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.sems[key] = sem
	}
	l.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}
