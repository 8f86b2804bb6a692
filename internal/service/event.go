package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
)

// EventService is the events controller. The projection is ordered by date,
// earliest first.
type EventService struct {
	events  *repo.Collection[domain.Event]
	session Identity
	view    *Projection[domain.Event]
}

// NewEventService constructs an EventService backed by the provided collection.
func NewEventService(events *repo.Collection[domain.Event], session Identity) *EventService {
	return &EventService{events: events, session: session, view: newProjection[domain.Event]()}
}

// Load refreshes the projection from the store.
func (s *EventService) Load(ctx context.Context) error {
	if err := load(ctx, s.events, s.view, byDate); err != nil {
		return fmt.Errorf("service.EventService.Load: %w", err)
	}
	return nil
}

// List returns every event ordered by date.
func (s *EventService) List() []domain.Event { return s.view.Snapshot() }

// Get returns one event from the projection.
func (s *EventService) Get(id string) (domain.Event, bool) {
	return find(s.view.Snapshot(), id, eventID)
}

// Subscribe registers fn for every republished projection.
func (s *EventService) Subscribe(fn func([]domain.Event)) (cancel func()) {
	return s.view.Subscribe(fn)
}

// State returns the projection load state.
func (s *EventService) State() State { return s.view.State() }

// Add schedules an event created by the signed-in user. The creator is not a
// participant.
func (s *EventService) Add(ctx context.Context, draft domain.EventDraft) (domain.Event, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Add: %w", err)
	}

	ev := domain.Event{
		ID:                  uuid.NewString(),
		Title:               draft.Title,
		Description:         draft.Description,
		Location:            draft.Location,
		Date:                draft.Date,
		Time:                draft.Time,
		Category:            draft.Category,
		CurrentParticipants: []string{},
		CreatedBy:           u.ID,
	}
	if draft.MaxParticipants != nil {
		limit := *draft.MaxParticipants
		ev.MaxParticipants = &limit
	}
	err = mutate(ctx, s.events, s.view, byDate, func(events []domain.Event) ([]domain.Event, error) {
		return append(events, ev), nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Add: %w", err)
	}
	return ev, nil
}

// Update edits an event created by the signed-in user.
// Returns domain.ErrInvariant if the new capacity is below the current
// participant count.
func (s *EventService) Update(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}

	var updated domain.Event
	err = mutate(ctx, s.events, s.view, byDate, func(events []domain.Event) ([]domain.Event, error) {
		i, err := indexOwned(events, id, eventID, eventCreator, u.ID)
		if err != nil {
			return nil, err
		}
		ev := patch.Apply(events[i])
		if limit, ok := ev.Capacity(); ok && len(ev.CurrentParticipants) > limit {
			return nil, fmt.Errorf("%w: capacity %d is below %d participants", domain.ErrInvariant, limit, len(ev.CurrentParticipants))
		}
		events[i] = ev
		updated = ev
		return events, nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	return updated, nil
}

// Delete cancels an event created by the signed-in user.
func (s *EventService) Delete(ctx context.Context, id string) error {
	u, err := requireUser(s.session)
	if err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	err = mutate(ctx, s.events, s.view, byDate, func(events []domain.Event) ([]domain.Event, error) {
		i, err := indexOwned(events, id, eventID, eventCreator, u.ID)
		if err != nil {
			return nil, err
		}
		return append(events[:i], events[i+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	return nil
}

// Join adds the signed-in user to an event's participants.
// Returns domain.ErrInvariant when the user created the event, has already
// joined, or the event is full.
func (s *EventService) Join(ctx context.Context, id string) (domain.Event, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Join: %w", err)
	}

	var joined domain.Event
	err = mutate(ctx, s.events, s.view, byDate, func(events []domain.Event) ([]domain.Event, error) {
		i, err := indexOf(events, id, eventID)
		if err != nil {
			return nil, err
		}
		ev := events[i]
		switch {
		case ev.CreatedBy == u.ID:
			return nil, fmt.Errorf("%w: creator cannot join their own event", domain.ErrInvariant)
		case ev.HasParticipant(u.ID):
			return nil, fmt.Errorf("%w: already joined", domain.ErrInvariant)
		case ev.IsFull():
			return nil, fmt.Errorf("%w: event is full", domain.ErrInvariant)
		}
		ev.CurrentParticipants = append(slices.Clone(ev.CurrentParticipants), u.ID)
		events[i] = ev
		joined = ev
		return events, nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Join: %w", err)
	}
	return joined, nil
}

// Leave removes the signed-in user from an event's participants.
// Returns domain.ErrInvariant if the user had not joined.
func (s *EventService) Leave(ctx context.Context, id string) (domain.Event, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Leave: %w", err)
	}

	var left domain.Event
	err = mutate(ctx, s.events, s.view, byDate, func(events []domain.Event) ([]domain.Event, error) {
		i, err := indexOf(events, id, eventID)
		if err != nil {
			return nil, err
		}
		ev := events[i]
		if !ev.HasParticipant(u.ID) {
			return nil, fmt.Errorf("%w: not a participant", domain.ErrInvariant)
		}
		ev.CurrentParticipants = slices.DeleteFunc(slices.Clone(ev.CurrentParticipants), func(p string) bool { return p == u.ID })
		events[i] = ev
		left = ev
		return events, nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Leave: %w", err)
	}
	return left, nil
}

// byDate orders events by their ISO date ascending; ties keep storage order.
func byDate(events []domain.Event) []domain.Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b domain.Event) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return out
}

func eventID(e domain.Event) string      { return e.ID }
func eventCreator(e domain.Event) string { return e.CreatedBy }
