package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/handler"
)

// Each mock below is a hand-written test double for one handler interface.
// Set only the method fields your test needs.

type mockSession struct {
	current       func() (domain.User, bool)
	login         func(ctx context.Context, email, password string) (domain.User, error)
	register      func(ctx context.Context, email, password, name string) (domain.User, error)
	updateProfile func(ctx context.Context, patch domain.ProfilePatch) (domain.User, error)
	logout        func(ctx context.Context) error
}

func (m *mockSession) Current() (domain.User, bool) { return m.current() }
func (m *mockSession) Login(ctx context.Context, email, password string) (domain.User, error) {
	return m.login(ctx, email, password)
}
func (m *mockSession) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	return m.register(ctx, email, password, name)
}
func (m *mockSession) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (domain.User, error) {
	return m.updateProfile(ctx, patch)
}
func (m *mockSession) Logout(ctx context.Context) error { return m.logout(ctx) }

type mockTrips struct {
	list           func() []domain.Trip
	get            func(id string) (domain.Trip, bool)
	add            func(ctx context.Context, draft domain.TripDraft) (domain.Trip, error)
	update         func(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error)
	delete         func(ctx context.Context, id string) error
	addActivity    func(ctx context.Context, id, activity string) (domain.Trip, error)
	removeActivity func(ctx context.Context, id string, index int) (domain.Trip, error)
}

func (m *mockTrips) List() []domain.Trip               { return m.list() }
func (m *mockTrips) Get(id string) (domain.Trip, bool) { return m.get(id) }
func (m *mockTrips) Add(ctx context.Context, d domain.TripDraft) (domain.Trip, error) {
	return m.add(ctx, d)
}
func (m *mockTrips) Update(ctx context.Context, id string, p domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, id, p)
}
func (m *mockTrips) Delete(ctx context.Context, id string) error { return m.delete(ctx, id) }
func (m *mockTrips) AddActivity(ctx context.Context, id, a string) (domain.Trip, error) {
	return m.addActivity(ctx, id, a)
}
func (m *mockTrips) RemoveActivity(ctx context.Context, id string, i int) (domain.Trip, error) {
	return m.removeActivity(ctx, id, i)
}

type mockMarketplace struct {
	search func(f domain.ItemFilter) []domain.MarketplaceItem
	get    func(id string) (domain.MarketplaceItem, bool)
	add    func(ctx context.Context, draft domain.ItemDraft) (domain.MarketplaceItem, error)
	update func(ctx context.Context, id string, patch domain.ItemPatch) (domain.MarketplaceItem, error)
	delete func(ctx context.Context, id string) error
}

func (m *mockMarketplace) Search(f domain.ItemFilter) []domain.MarketplaceItem { return m.search(f) }
func (m *mockMarketplace) Get(id string) (domain.MarketplaceItem, bool)        { return m.get(id) }
func (m *mockMarketplace) Add(ctx context.Context, d domain.ItemDraft) (domain.MarketplaceItem, error) {
	return m.add(ctx, d)
}
func (m *mockMarketplace) Update(ctx context.Context, id string, p domain.ItemPatch) (domain.MarketplaceItem, error) {
	return m.update(ctx, id, p)
}
func (m *mockMarketplace) Delete(ctx context.Context, id string) error { return m.delete(ctx, id) }

type mockFeed struct {
	list       func() []domain.FeedPost
	get        func(id string) (domain.FeedPost, bool)
	addPost    func(ctx context.Context, draft domain.PostDraft) (domain.FeedPost, error)
	updatePost func(ctx context.Context, id string, patch domain.PostPatch) (domain.FeedPost, error)
	deletePost func(ctx context.Context, id string) error
	toggleLike func(ctx context.Context, id string) (bool, error)
	addComment func(ctx context.Context, id, content string) (domain.Comment, error)
}

func (m *mockFeed) List() []domain.FeedPost               { return m.list() }
func (m *mockFeed) Get(id string) (domain.FeedPost, bool) { return m.get(id) }
func (m *mockFeed) AddPost(ctx context.Context, d domain.PostDraft) (domain.FeedPost, error) {
	return m.addPost(ctx, d)
}
func (m *mockFeed) UpdatePost(ctx context.Context, id string, p domain.PostPatch) (domain.FeedPost, error) {
	return m.updatePost(ctx, id, p)
}
func (m *mockFeed) DeletePost(ctx context.Context, id string) error { return m.deletePost(ctx, id) }
func (m *mockFeed) ToggleLike(ctx context.Context, id string) (bool, error) {
	return m.toggleLike(ctx, id)
}
func (m *mockFeed) AddComment(ctx context.Context, id, c string) (domain.Comment, error) {
	return m.addComment(ctx, id, c)
}

type mockEvents struct {
	list   func() []domain.Event
	get    func(id string) (domain.Event, bool)
	add    func(ctx context.Context, draft domain.EventDraft) (domain.Event, error)
	update func(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error)
	delete func(ctx context.Context, id string) error
	join   func(ctx context.Context, id string) (domain.Event, error)
	leave  func(ctx context.Context, id string) (domain.Event, error)
}

func (m *mockEvents) List() []domain.Event               { return m.list() }
func (m *mockEvents) Get(id string) (domain.Event, bool) { return m.get(id) }
func (m *mockEvents) Add(ctx context.Context, d domain.EventDraft) (domain.Event, error) {
	return m.add(ctx, d)
}
func (m *mockEvents) Update(ctx context.Context, id string, p domain.EventPatch) (domain.Event, error) {
	return m.update(ctx, id, p)
}
func (m *mockEvents) Delete(ctx context.Context, id string) error { return m.delete(ctx, id) }
func (m *mockEvents) Join(ctx context.Context, id string) (domain.Event, error) {
	return m.join(ctx, id)
}
func (m *mockEvents) Leave(ctx context.Context, id string) (domain.Event, error) {
	return m.leave(ctx, id)
}

type mockFeedback struct {
	submit func(ctx context.Context, rating int, category, message string) (domain.Feedback, error)
}

func (m *mockFeedback) Submit(ctx context.Context, rating int, category, message string) (domain.Feedback, error) {
	return m.submit(ctx, rating, category, message)
}

type mockWeather struct {
	getWeather func(ctx context.Context, location string) domain.Weather
}

func (m *mockWeather) GetWeather(ctx context.Context, location string) domain.Weather {
	return m.getWeather(ctx, location)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.SessionServicer     = (*mockSession)(nil)
	_ handler.TripServicer        = (*mockTrips)(nil)
	_ handler.MarketplaceServicer = (*mockMarketplace)(nil)
	_ handler.FeedServicer        = (*mockFeed)(nil)
	_ handler.EventServicer       = (*mockEvents)(nil)
	_ handler.FeedbackServicer    = (*mockFeedback)(nil)
	_ handler.WeatherServicer     = (*mockWeather)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given services into its chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(svcs handler.Services) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(svcs, logger).Routes(nil)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends one request through h and returns the recorder.
func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeError parses an ErrorResponse body.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
