package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// Collection is a typed JSON array persisted under one key.
// Reads always go to the store, never to a cache, so callers act on the
// latest persisted state.
type Collection[T any] struct {
	kv      KV
	locks   *KeyLocks
	key     string
	timeout time.Duration
}

// NewCollection binds a typed collection to key. timeout bounds each Load or
// Mutate call end to end (lock wait included); zero disables it.
func NewCollection[T any](kv KV, locks *KeyLocks, key string, timeout time.Duration) *Collection[T] {
	return &Collection[T]{kv: kv, locks: locks, key: key, timeout: timeout}
}

// Key returns the storage key the collection lives under.
func (c *Collection[T]) Key() string { return c.key }

// Load returns the full persisted collection. An absent key yields an empty,
// non-nil slice.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	items, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.Collection.Load: %w", err)
	}
	return items, nil
}

// LoadCommit is Load taken under the key lock. onRead runs with the loaded
// collection before the key is unlocked, so it is ordered against every
// MutateCommit on the same key.
func (c *Collection[T]) LoadCommit(ctx context.Context, onRead func(items []T)) ([]T, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	unlock, err := c.locks.Lock(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("repo.Collection.LoadCommit %q: lock: %w: %w", c.key, domain.ErrStoreFailure, err)
	}
	defer unlock()

	items, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.Collection.LoadCommit: %w", err)
	}
	if onRead != nil {
		onRead(items)
	}
	return items, nil
}

// Mutate runs one serialized read-modify-write cycle: lock the key, load the
// collection, pass it to fn, persist what fn returns, unlock. fn owns the
// slice it receives. If fn returns an error nothing is written and that error
// is returned unchanged. Store failures wrap domain.ErrStoreFailure.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) ([]T, error) {
	return c.MutateCommit(ctx, fn, nil)
}

// MutateCommit is Mutate with a hook. onCommit runs with the persisted
// collection after a successful write and before the key is unlocked, so
// hooks observe commits in store order. It must not touch the same key.
func (c *Collection[T]) MutateCommit(ctx context.Context, fn func(items []T) ([]T, error), onCommit func(items []T)) ([]T, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	unlock, err := c.locks.Lock(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("repo.Collection.Mutate %q: lock: %w: %w", c.key, domain.ErrStoreFailure, err)
	}
	defer unlock()

	items, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.Collection.Mutate: %w", err)
	}

	next, err := fn(items)
	if err != nil {
		return nil, err
	}
	if next == nil {
		next = []T{}
	}

	if err := save(ctx, c.kv, c.key, next); err != nil {
		return nil, fmt.Errorf("repo.Collection.Mutate: %w", err)
	}
	if onCommit != nil {
		onCommit(next)
	}
	return next, nil
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", domain.ErrStoreFailure, c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Value is a single typed JSON document persisted under one key.
type Value[T any] struct {
	kv      KV
	locks   *KeyLocks
	key     string
	timeout time.Duration
}

// NewValue binds a typed single value to key.
func NewValue[T any](kv KV, locks *KeyLocks, key string, timeout time.Duration) *Value[T] {
	return &Value[T]{kv: kv, locks: locks, key: key, timeout: timeout}
}

// Load returns the stored value. ok is false when the key holds nothing.
func (v *Value[T]) Load(ctx context.Context) (val T, ok bool, err error) {
	ctx, cancel := withTimeout(ctx, v.timeout)
	defer cancel()

	raw, err := v.kv.Get(ctx, v.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return val, false, nil
		}
		return val, false, fmt.Errorf("repo.Value.Load: %w: %w", domain.ErrStoreFailure, err)
	}
	if err := json.Unmarshal(raw, &val); err != nil {
		return val, false, fmt.Errorf("repo.Value.Load: %w: decode %q: %w", domain.ErrStoreFailure, v.key, err)
	}
	return val, true, nil
}

// Save replaces the stored value.
func (v *Value[T]) Save(ctx context.Context, val T) error {
	ctx, cancel := withTimeout(ctx, v.timeout)
	defer cancel()

	unlock, err := v.locks.Lock(ctx, v.key)
	if err != nil {
		return fmt.Errorf("repo.Value.Save %q: lock: %w: %w", v.key, domain.ErrStoreFailure, err)
	}
	defer unlock()

	if err := save(ctx, v.kv, v.key, val); err != nil {
		return fmt.Errorf("repo.Value.Save: %w", err)
	}
	return nil
}

// Clear removes the stored value.
func (v *Value[T]) Clear(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, v.timeout)
	defer cancel()

	unlock, err := v.locks.Lock(ctx, v.key)
	if err != nil {
		return fmt.Errorf("repo.Value.Clear %q: lock: %w: %w", v.key, domain.ErrStoreFailure, err)
	}
	defer unlock()

	if err := v.kv.Remove(ctx, v.key); err != nil {
		return fmt.Errorf("repo.Value.Clear: %w: %w", domain.ErrStoreFailure, err)
	}
	return nil
}

func save(ctx context.Context, kv KV, key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", domain.ErrStoreFailure, key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
