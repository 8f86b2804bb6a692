package domain

import "slices"

// Event is a scheduled meetup that users can join.
// Date is an ISO date ("2006-01-02") and orders the events projection.
// MaxParticipants nil or zero means unlimited.
type Event struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Location            string   `json:"location"`
	Date                string   `json:"date"`
	Time                string   `json:"time"`
	Category            string   `json:"category"`
	MaxParticipants     *int     `json:"maxParticipants,omitempty"`
	CurrentParticipants []string `json:"currentParticipants"`
	CreatedBy           string   `json:"createdBy"`
}

// HasParticipant reports whether userID has joined the event.
func (e Event) HasParticipant(userID string) bool {
	return slices.Contains(e.CurrentParticipants, userID)
}

// Capacity returns the participant limit and whether one is set.
func (e Event) Capacity() (int, bool) {
	if e.MaxParticipants == nil || *e.MaxParticipants <= 0 {
		return 0, false
	}
	return *e.MaxParticipants, true
}

// IsFull reports whether a capacity is set and has been reached.
func (e Event) IsFull() bool {
	limit, ok := e.Capacity()
	return ok && len(e.CurrentParticipants) >= limit
}

// EventDraft carries the caller-supplied fields of a new event.
type EventDraft struct {
	Title           string
	Description     string
	Location        string
	Date            string
	Time            string
	Category        string
	MaxParticipants *int
}

// EventPatch lists the mutable fields of an event. Participants and the
// creator are not patchable.
type EventPatch struct {
	Title           *string
	Description     *string
	Location        *string
	Date            *string
	Time            *string
	Category        *string
	MaxParticipants *int
}

// Apply merges the non-nil fields of p into e.
func (p EventPatch) Apply(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.MaxParticipants != nil {
		limit := *p.MaxParticipants
		e.MaxParticipants = &limit
	}
	return e
}
