// Package domain contains the core data types shared by every travel-companion
// module (trips, marketplace, feed, events, feedback, weather).
// Field names in JSON tags match the documents already persisted on devices,
// so they must not be renamed.
package domain

// Trip is a planned journey owned by one user.
// StartDate and EndDate are ISO dates ("2006-01-02"); the caller is
// responsible for EndDate not preceding StartDate.
type Trip struct {
	ID          string   `json:"id"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Activities  []string `json:"activities"`
	UserID      string   `json:"userId"`
}

// TripDraft carries the caller-supplied fields of a new trip.
// ID and UserID are minted by the trip controller.
type TripDraft struct {
	Destination string
	StartDate   string
	EndDate     string
	Activities  []string
}

// TripPatch lists the mutable fields of a trip. Nil fields are left unchanged.
type TripPatch struct {
	Destination *string
	StartDate   *string
	EndDate     *string
	Activities  *[]string
}

// Apply merges the non-nil fields of p into t.
func (p TripPatch) Apply(t Trip) Trip {
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Activities != nil {
		t.Activities = append([]string{}, (*p.Activities)...)
	}
	return t
}
