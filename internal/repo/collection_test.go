package repo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
)

// fakeKV is a hand-written test double for repo.KV.
// Each method is a function field. Set only the ones your test needs;
// unset fields fall through to an embedded MemoryKV.
type fakeKV struct {
	mem    *repo.MemoryKV
	get    func(ctx context.Context, key string) ([]byte, error)
	set    func(ctx context.Context, key string, value []byte) error
	remove func(ctx context.Context, key string) error
}

func newFakeKV() *fakeKV { return &fakeKV{mem: repo.NewMemoryKV()} }

func (f *fakeKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.get != nil {
		return f.get(ctx, key)
	}
	return f.mem.Get(ctx, key)
}
func (f *fakeKV) Set(ctx context.Context, key string, value []byte) error {
	if f.set != nil {
		return f.set(ctx, key, value)
	}
	return f.mem.Set(ctx, key, value)
}
func (f *fakeKV) Remove(ctx context.Context, key string) error {
	if f.remove != nil {
		return f.remove(ctx, key)
	}
	return f.mem.Remove(ctx, key)
}

// compile-time check: fakeKV must satisfy repo.KV.
var _ repo.KV = (*fakeKV)(nil)

func newTrips(kv repo.KV) *repo.Collection[domain.Trip] {
	return repo.NewCollection[domain.Trip](kv, repo.NewKeyLocks(), repo.KeyTrips, time.Second)
}

func TestCollection_Load_AbsentKeyIsEmpty(t *testing.T) {
	c := newTrips(repo.NewMemoryKV())

	got, err := c.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollection_Load_NullDocumentIsEmpty(t *testing.T) {
	kv := repo.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), repo.KeyTrips, []byte(`null`)))

	got, err := newTrips(kv).Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCollection_Load_CorruptDocument(t *testing.T) {
	kv := repo.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), repo.KeyTrips, []byte(`{not json`)))

	_, err := newTrips(kv).Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrStoreFailure)
}

func TestCollection_Load_StoreError(t *testing.T) {
	kv := newFakeKV()
	kv.get = func(context.Context, string) ([]byte, error) { return nil, errors.New("disk gone") }

	_, err := newTrips(kv).Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrStoreFailure)
}

func TestCollection_Mutate_Persists(t *testing.T) {
	kv := repo.NewMemoryKV()
	c := newTrips(kv)
	ctx := context.Background()

	next, err := c.Mutate(ctx, func(items []domain.Trip) ([]domain.Trip, error) {
		return append(items, domain.Trip{ID: "t1", Destination: "Lisbon"}), nil
	})
	require.NoError(t, err)
	assert.Len(t, next, 1)

	raw, err := kv.Get(ctx, repo.KeyTrips)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"destination":"Lisbon"`)
}

func TestCollection_Mutate_FnErrorWritesNothing(t *testing.T) {
	kv := newFakeKV()
	writes := 0
	kv.set = func(ctx context.Context, key string, value []byte) error {
		writes++
		return kv.mem.Set(ctx, key, value)
	}
	blocked := errors.New("blocked")

	_, err := newTrips(kv).Mutate(context.Background(), func([]domain.Trip) ([]domain.Trip, error) {
		return nil, blocked
	})

	assert.ErrorIs(t, err, blocked)
	assert.Zero(t, writes)
}

func TestCollection_Mutate_SetError(t *testing.T) {
	kv := newFakeKV()
	kv.set = func(context.Context, string, []byte) error { return errors.New("read-only fs") }

	_, err := newTrips(kv).Mutate(context.Background(), func(items []domain.Trip) ([]domain.Trip, error) {
		return append(items, domain.Trip{ID: "t1"}), nil
	})

	assert.ErrorIs(t, err, domain.ErrStoreFailure)
}

// TestCollection_Mutate_NoLostUpdates issues many concurrent read-modify-write
// cycles against the same key. Without per-key serialization most appends
// would be overwritten by a sibling that loaded the same snapshot.
func TestCollection_Mutate_NoLostUpdates(t *testing.T) {
	kv := repo.NewMemoryKV()
	c := newTrips(kv)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Mutate(ctx, func(items []domain.Trip) ([]domain.Trip, error) {
				return append(items, domain.Trip{}), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, n)
}

// TestCollection_MutateCommit_HooksRunInCommitOrder appends concurrently and
// records the collection length each hook sees. Hooks run before unlock, so
// the recorded lengths are exactly 1..n in order.
func TestCollection_MutateCommit_HooksRunInCommitOrder(t *testing.T) {
	c := newTrips(repo.NewMemoryKV())
	ctx := context.Background()

	const n = 30
	var (
		mu   sync.Mutex
		seen []int
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.MutateCommit(ctx, func(items []domain.Trip) ([]domain.Trip, error) {
				return append(items, domain.Trip{}), nil
			}, func(items []domain.Trip) {
				mu.Lock()
				seen = append(seen, len(items))
				mu.Unlock()
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
	for i, got := range seen {
		assert.Equal(t, i+1, got)
	}
}

func TestCollection_MutateCommit_NoHookOnFailure(t *testing.T) {
	kv := newFakeKV()
	c := newTrips(kv)
	hooked := 0
	hook := func([]domain.Trip) { hooked++ }

	_, err := c.MutateCommit(context.Background(), func([]domain.Trip) ([]domain.Trip, error) {
		return nil, errors.New("blocked")
	}, hook)
	require.Error(t, err)

	kv.set = func(context.Context, string, []byte) error { return errors.New("read-only fs") }
	_, err = c.MutateCommit(context.Background(), func(items []domain.Trip) ([]domain.Trip, error) {
		return append(items, domain.Trip{ID: "t1"}), nil
	}, hook)
	require.ErrorIs(t, err, domain.ErrStoreFailure)

	assert.Zero(t, hooked)
}

func TestCollection_LoadCommit_WaitsForHolder(t *testing.T) {
	kv := repo.NewMemoryKV()
	locks := repo.NewKeyLocks()
	c := repo.NewCollection[domain.Trip](kv, locks, repo.KeyTrips, 20*time.Millisecond)

	unlock, err := locks.Lock(context.Background(), repo.KeyTrips)
	require.NoError(t, err)

	called := false
	_, err = c.LoadCommit(context.Background(), func([]domain.Trip) { called = true })
	assert.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.False(t, called)

	unlock()
	items, err := c.LoadCommit(context.Background(), func([]domain.Trip) { called = true })
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, called)
}

// TestCollection_Mutate_TimesOutWaitingForLock verifies that a stalled holder
// of the key surfaces as a store failure for the next caller, not a hang.
func TestCollection_Mutate_TimesOutWaitingForLock(t *testing.T) {
	kv := repo.NewMemoryKV()
	locks := repo.NewKeyLocks()
	c := repo.NewCollection[domain.Trip](kv, locks, repo.KeyTrips, 20*time.Millisecond)

	unlock, err := locks.Lock(context.Background(), repo.KeyTrips)
	require.NoError(t, err)
	defer unlock()

	_, err = c.Mutate(context.Background(), func(items []domain.Trip) ([]domain.Trip, error) {
		return items, nil
	})

	assert.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestValue_SaveLoadClear(t *testing.T) {
	v := repo.NewValue[domain.User](repo.NewMemoryKV(), repo.NewKeyLocks(), repo.KeyUser, time.Second)
	ctx := context.Background()

	_, ok, err := v.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, v.Save(ctx, domain.User{ID: "u1", Name: "Ann"}))

	got, ok, err := v.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ann", got.Name)

	require.NoError(t, v.Clear(ctx))
	_, ok, err = v.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValue_Load_StoreError(t *testing.T) {
	kv := newFakeKV()
	kv.get = func(context.Context, string) ([]byte, error) { return nil, errors.New("boom") }
	v := repo.NewValue[domain.User](kv, repo.NewKeyLocks(), repo.KeyUser, time.Second)

	_, ok, err := v.Load(context.Background())

	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrStoreFailure)
}
