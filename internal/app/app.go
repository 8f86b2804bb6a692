// Package app is the composition root of the travel companion. It builds the
// session manager and every collection controller over one key-value store,
// ties the trip view to session changes, and exposes the boolean operations
// the client screens call. Failures are logged here with the operation name
// and target id, then reported as false.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/service"
)

// WeatherLookup returns weather for a location and never fails.
// *weather.Client satisfies it.
type WeatherLookup interface {
	GetWeather(ctx context.Context, location string) domain.Weather
}

// Deps are the collaborators App is built from.
type Deps struct {
	KV repo.KV
	// Timeout bounds each store round trip. Zero disables it.
	Timeout time.Duration
	// Hasher defaults to service.PlainHasher.
	Hasher  service.PasswordHasher
	Weather WeatherLookup
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// App owns every controller for one device session. It holds no package
// level state; build one per process with New.
type App struct {
	Session     *service.SessionManager
	Trips       *service.TripService
	Marketplace *service.MarketplaceService
	Feed        *service.FeedService
	Events      *service.EventService
	Feedback    *service.FeedbackService
	Weather     WeatherLookup

	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	unsubs []func()
}

// New wires the controllers over d.KV. Nothing is read until Start.
func New(d Deps) *App {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	locks := repo.NewKeyLocks()

	session := service.NewSessionManager(
		repo.NewCollection[domain.User](d.KV, locks, repo.KeySession, d.Timeout),
		repo.NewValue[domain.User](d.KV, locks, repo.KeyUser, d.Timeout),
		d.Hasher,
	)
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Session:     session,
		Trips:       service.NewTripService(repo.NewCollection[domain.Trip](d.KV, locks, repo.KeyTrips, d.Timeout), session),
		Marketplace: service.NewMarketplaceService(repo.NewCollection[domain.MarketplaceItem](d.KV, locks, repo.KeyMarketplace, d.Timeout), session),
		Feed:        service.NewFeedService(repo.NewCollection[domain.FeedPost](d.KV, locks, repo.KeyFeedPosts, d.Timeout), session),
		Events:      service.NewEventService(repo.NewCollection[domain.Event](d.KV, locks, repo.KeyEvents, d.Timeout), session),
		Feedback:    service.NewFeedbackService(repo.NewCollection[domain.Feedback](d.KV, locks, repo.KeyFeedback, d.Timeout), session),
		Weather:     d.Weather,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}

	// The trip view is scoped to the signed-in user, so every identity
	// change reloads it.
	a.unsubs = append(a.unsubs, session.Subscribe(func(u *domain.User) {
		if err := a.Trips.Load(a.ctx); err != nil {
			a.logger.Error("trip reload failed", "op", "Trips.Load", "error", err)
		}
	}))
	return a
}

// Start restores the persisted session and loads every projection.
// A failed load is logged and returned joined; the App stays usable and
// each projection can be reloaded later.
func (a *App) Start(ctx context.Context) error {
	var errs []error

	u, ok, err := a.Session.Restore(ctx)
	switch {
	case err != nil:
		a.logger.ErrorContext(ctx, "session restore failed", "op", "Session.Restore", "error", err)
		errs = append(errs, err)
	case ok:
		a.logger.InfoContext(ctx, "session restored", "user_id", u.ID)
	}

	loads := []struct {
		op   string
		load func(context.Context) error
	}{
		{"Marketplace.Load", a.Marketplace.Load},
		{"Feed.Load", a.Feed.Load},
		{"Events.Load", a.Events.Load},
	}
	for _, l := range loads {
		if err := l.load(ctx); err != nil {
			a.logger.ErrorContext(ctx, "projection load failed", "op", l.op, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close drops the session subscription and cancels background reloads.
func (a *App) Close() {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil
	a.cancel()
}

// report logs err with op and id and returns false. Rejections by a domain
// rule log at warn, everything else at error.
func (a *App) report(ctx context.Context, op, id string, err error) bool {
	attrs := []any{"op", op, "error", err}
	if id != "" {
		attrs = append(attrs, "id", id)
	}
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvariant),
		errors.Is(err, domain.ErrNotFound):
		a.logger.WarnContext(ctx, "operation rejected", attrs...)
	default:
		a.logger.ErrorContext(ctx, "operation failed", attrs...)
	}
	return false
}

func (a *App) done(ctx context.Context, op, id string, err error) bool {
	if err != nil {
		return a.report(ctx, op, id, err)
	}
	return true
}
