// Package handler implements the HTTP API of the travel companion.
// All handlers are methods on Server. Methods are split into domain-specific
// files (auth.go, trip.go, etc.) but share the same Server struct and its
// dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// SessionServicer defines the identity operations the auth handlers depend on.
// Defining the interfaces here, in the consumer package, lets handler tests
// inject mocks without touching the store or service layer.
type SessionServicer interface {
	Current() (domain.User, bool)
	Login(ctx context.Context, email, password string) (domain.User, error)
	Register(ctx context.Context, email, password, name string) (domain.User, error)
	UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (domain.User, error)
	Logout(ctx context.Context) error
}

// TripServicer defines the trip operations the trip handlers depend on.
type TripServicer interface {
	List() []domain.Trip
	Get(id string) (domain.Trip, bool)
	Add(ctx context.Context, draft domain.TripDraft) (domain.Trip, error)
	Update(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, id string) error
	AddActivity(ctx context.Context, id, activity string) (domain.Trip, error)
	RemoveActivity(ctx context.Context, id string, index int) (domain.Trip, error)
}

// MarketplaceServicer defines the listing operations the marketplace handlers depend on.
type MarketplaceServicer interface {
	Search(f domain.ItemFilter) []domain.MarketplaceItem
	Get(id string) (domain.MarketplaceItem, bool)
	Add(ctx context.Context, draft domain.ItemDraft) (domain.MarketplaceItem, error)
	Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.MarketplaceItem, error)
	Delete(ctx context.Context, id string) error
}

// FeedServicer defines the social feed operations the feed handlers depend on.
type FeedServicer interface {
	List() []domain.FeedPost
	Get(id string) (domain.FeedPost, bool)
	AddPost(ctx context.Context, draft domain.PostDraft) (domain.FeedPost, error)
	UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (domain.FeedPost, error)
	DeletePost(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string) (bool, error)
	AddComment(ctx context.Context, id, content string) (domain.Comment, error)
}

// EventServicer defines the event operations the event handlers depend on.
type EventServicer interface {
	List() []domain.Event
	Get(id string) (domain.Event, bool)
	Add(ctx context.Context, draft domain.EventDraft) (domain.Event, error)
	Update(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error)
	Delete(ctx context.Context, id string) error
	Join(ctx context.Context, id string) (domain.Event, error)
	Leave(ctx context.Context, id string) (domain.Event, error)
}

// FeedbackServicer defines the feedback operation the feedback handler depends on.
type FeedbackServicer interface {
	Submit(ctx context.Context, rating int, category, message string) (domain.Feedback, error)
}

// WeatherServicer returns weather for a location and never fails.
type WeatherServicer interface {
	GetWeather(ctx context.Context, location string) domain.Weather
}

// Services groups the Server's dependencies. A nil service leaves its routes
// unregistered, which keeps focused handler tests small.
type Services struct {
	Session     SessionServicer
	Trips       TripServicer
	Marketplace MarketplaceServicer
	Feed        FeedServicer
	Events      EventServicer
	Feedback    FeedbackServicer
	Weather     WeatherServicer
}

// Server holds every handler's dependencies.
type Server struct {
	Services
	logger *slog.Logger
}

// NewServer constructs the Server. A nil logger means slog.Default().
func NewServer(svcs Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Services: svcs, logger: logger}
}

// Routes returns a chi router with every endpoint registered. authLimit, if
// non-nil, wraps the credential endpoints (register and login).
func (s *Server) Routes(authLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)

	if s.Session != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if authLimit != nil {
					r.Use(authLimit)
				}
				r.Post("/register", s.Register)
				r.Post("/login", s.Login)
			})
			r.Post("/logout", s.Logout)
			r.Get("/me", s.GetMe)
			r.Patch("/me", s.UpdateMe)
		})
	}
	if s.Trips != nil {
		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Get("/export", s.ExportTrips)
			r.Get("/{id}", s.GetTrip)
			r.Patch("/{id}", s.UpdateTrip)
			r.Delete("/{id}", s.DeleteTrip)
			r.Post("/{id}/activities", s.AddActivity)
			r.Delete("/{id}/activities/{index}", s.RemoveActivity)
		})
	}
	if s.Marketplace != nil {
		r.Route("/marketplace", func(r chi.Router) {
			r.Get("/", s.ListItems)
			r.Post("/", s.CreateItem)
			r.Get("/{id}", s.GetItem)
			r.Patch("/{id}", s.UpdateItem)
			r.Delete("/{id}", s.DeleteItem)
		})
	}
	if s.Feed != nil {
		r.Route("/feed", func(r chi.Router) {
			r.Get("/", s.ListPosts)
			r.Post("/", s.CreatePost)
			r.Get("/{id}", s.GetPost)
			r.Patch("/{id}", s.UpdatePost)
			r.Delete("/{id}", s.DeletePost)
			r.Post("/{id}/like", s.ToggleLike)
			r.Post("/{id}/comments", s.AddComment)
		})
	}
	if s.Events != nil {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.ListEvents)
			r.Post("/", s.CreateEvent)
			r.Get("/{id}", s.GetEvent)
			r.Patch("/{id}", s.UpdateEvent)
			r.Delete("/{id}", s.DeleteEvent)
			r.Post("/{id}/join", s.JoinEvent)
			r.Post("/{id}/leave", s.LeaveEvent)
		})
	}
	if s.Feedback != nil {
		r.Post("/feedback", s.SubmitFeedback)
	}
	if s.Weather != nil {
		r.Get("/weather", s.GetWeather)
	}
	return r
}
