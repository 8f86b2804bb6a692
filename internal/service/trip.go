package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
)

// TripService is the trip controller. Its projection holds only the signed-in
// user's trips, in insertion order, and is empty when signed out.
type TripService struct {
	trips   *repo.Collection[domain.Trip]
	session Identity
	view    *Projection[domain.Trip]
}

// NewTripService constructs a TripService backed by the provided collection.
func NewTripService(trips *repo.Collection[domain.Trip], session Identity) *TripService {
	return &TripService{trips: trips, session: session, view: newProjection[domain.Trip]()}
}

// Load refreshes the projection for the current identity. With no session the
// projection becomes empty without a store round trip.
func (s *TripService) Load(ctx context.Context) error {
	if _, ok := s.session.Current(); !ok {
		s.view.publish(nil)
		return nil
	}
	if err := load(ctx, s.trips, s.view, s.visible); err != nil {
		return fmt.Errorf("service.TripService.Load: %w", err)
	}
	return nil
}

// List returns the signed-in user's trips.
func (s *TripService) List() []domain.Trip { return s.view.Snapshot() }

// Get returns one of the signed-in user's trips from the projection.
func (s *TripService) Get(id string) (domain.Trip, bool) {
	return find(s.view.Snapshot(), id, tripID)
}

// Subscribe registers fn for every republished projection.
func (s *TripService) Subscribe(fn func([]domain.Trip)) (cancel func()) {
	return s.view.Subscribe(fn)
}

// State returns the projection load state.
func (s *TripService) State() State { return s.view.State() }

// Add creates a trip owned by the signed-in user.
func (s *TripService) Add(ctx context.Context, draft domain.TripDraft) (domain.Trip, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Add: %w", err)
	}

	trip := domain.Trip{
		ID:          uuid.NewString(),
		Destination: draft.Destination,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
		Activities:  append([]string{}, draft.Activities...),
		UserID:      u.ID,
	}
	err = mutate(ctx, s.trips, s.view, s.visible, func(trips []domain.Trip) ([]domain.Trip, error) {
		return append(trips, trip), nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Add: %w", err)
	}
	return trip, nil
}

// Update merges patch into a trip owned by the signed-in user.
// Returns domain.ErrNotFound or domain.ErrUnauthorized.
func (s *TripService) Update(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error) {
	trip, err := s.modify(ctx, id, func(t domain.Trip) (domain.Trip, error) {
		return patch.Apply(t), nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return trip, nil
}

// Delete removes a trip owned by the signed-in user.
// Returns domain.ErrNotFound or domain.ErrUnauthorized.
func (s *TripService) Delete(ctx context.Context, id string) error {
	u, err := requireUser(s.session)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	err = mutate(ctx, s.trips, s.view, s.visible, func(trips []domain.Trip) ([]domain.Trip, error) {
		i, err := indexOwned(trips, id, tripID, tripOwner, u.ID)
		if err != nil {
			return nil, err
		}
		return append(trips[:i], trips[i+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AddActivity appends a trimmed activity to a trip's itinerary.
// Returns domain.ErrValidation for a blank activity.
func (s *TripService) AddActivity(ctx context.Context, id, activity string) (domain.Trip, error) {
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddActivity: %w: activity is required", domain.ErrValidation)
	}
	trip, err := s.modify(ctx, id, func(t domain.Trip) (domain.Trip, error) {
		t.Activities = append(t.Activities, activity)
		return t, nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddActivity: %w", err)
	}
	return trip, nil
}

// RemoveActivity drops the activity at index from a trip's itinerary.
// Returns domain.ErrNotFound when index is out of range.
func (s *TripService) RemoveActivity(ctx context.Context, id string, index int) (domain.Trip, error) {
	trip, err := s.modify(ctx, id, func(t domain.Trip) (domain.Trip, error) {
		if index < 0 || index >= len(t.Activities) {
			return t, fmt.Errorf("%w: activity %d", domain.ErrNotFound, index)
		}
		t.Activities = append(t.Activities[:index:index], t.Activities[index+1:]...)
		return t, nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RemoveActivity: %w", err)
	}
	return trip, nil
}

// modify applies change to one owned trip inside a single mutation cycle.
func (s *TripService) modify(ctx context.Context, id string, change func(domain.Trip) (domain.Trip, error)) (domain.Trip, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.Trip{}, err
	}
	var out domain.Trip
	err = mutate(ctx, s.trips, s.view, s.visible, func(trips []domain.Trip) ([]domain.Trip, error) {
		i, err := indexOwned(trips, id, tripID, tripOwner, u.ID)
		if err != nil {
			return nil, err
		}
		t, err := change(trips[i])
		if err != nil {
			return nil, err
		}
		t.ID, t.UserID = trips[i].ID, trips[i].UserID
		trips[i] = t
		out = t
		return trips, nil
	})
	return out, err
}

// visible filters the full collection to the signed-in user's trips.
func (s *TripService) visible(trips []domain.Trip) []domain.Trip {
	u, ok := s.session.Current()
	if !ok {
		return nil
	}
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if t.UserID == u.ID {
			out = append(out, t)
		}
	}
	return out
}

func tripID(t domain.Trip) string    { return t.ID }
func tripOwner(t domain.Trip) string { return t.UserID }
