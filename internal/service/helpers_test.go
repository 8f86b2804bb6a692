package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/service"
)

// fakeKV is a hand-written test double for repo.KV.
// Each method is a function field; unset fields fall through to an embedded
// MemoryKV.
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

// fixture wires every controller over one fakeKV, the way app.New does.
type fixture struct {
	kv          *fakeKV
	session     *service.SessionManager
	trips       *service.TripService
	marketplace *service.MarketplaceService
	feed        *service.FeedService
	events      *service.EventService
	feedback    *service.FeedbackService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := newFakeKV()
	locks := repo.NewKeyLocks()
	timeout := time.Second

	session := service.NewSessionManager(
		repo.NewCollection[domain.User](kv, locks, repo.KeySession, timeout),
		repo.NewValue[domain.User](kv, locks, repo.KeyUser, timeout),
		nil,
	)
	return &fixture{
		kv:          kv,
		session:     session,
		trips:       service.NewTripService(repo.NewCollection[domain.Trip](kv, locks, repo.KeyTrips, timeout), session),
		marketplace: service.NewMarketplaceService(repo.NewCollection[domain.MarketplaceItem](kv, locks, repo.KeyMarketplace, timeout), session),
		feed:        service.NewFeedService(repo.NewCollection[domain.FeedPost](kv, locks, repo.KeyFeedPosts, timeout), session),
		events:      service.NewEventService(repo.NewCollection[domain.Event](kv, locks, repo.KeyEvents, timeout), session),
		feedback:    service.NewFeedbackService(repo.NewCollection[domain.Feedback](kv, locks, repo.KeyFeedback, timeout), session),
	}
}

// register signs up and leaves the new user signed in.
func (f *fixture) register(t *testing.T, email, name string) domain.User {
	t.Helper()
	u, err := f.session.Register(context.Background(), email, "pw-"+name, name)
	require.NoError(t, err)
	return u
}

// signInAs switches the session to an existing user.
func (f *fixture) signInAs(t *testing.T, u domain.User) {
	t.Helper()
	_, err := f.session.Login(context.Background(), u.Email, "pw-"+u.Name)
	require.NoError(t, err)
}

// stored decodes the raw document persisted under key.
func stored[T any](t *testing.T, kv *fakeKV, key string) []T {
	t.Helper()
	raw, err := kv.mem.Get(context.Background(), key)
	require.NoError(t, err)
	var out []T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// seed writes items directly under key.
func seed[T any](t *testing.T, kv *fakeKV, key string, items []T) {
	t.Helper()
	raw, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, kv.mem.Set(context.Background(), key, raw))
}

// failWrites makes every Set fail until the returned func is called.
func failWrites(kv *fakeKV) (restore func()) {
	kv.set = func(context.Context, string, []byte) error { return errBoom }
	return func() { kv.set = nil }
}

func ptr[T any](v T) *T { return &v }
