package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// TripRequest is the body of POST /trips.
type TripRequest struct {
	Destination string             `json:"destination" validate:"required"`
	StartDate   openapi_types.Date `json:"startDate" validate:"required"`
	EndDate     openapi_types.Date `json:"endDate" validate:"required"`
	Activities  []string           `json:"activities" validate:"omitempty,dive,required"`
}

// TripPatchRequest is the body of PATCH /trips/{id}. Absent fields are unchanged.
type TripPatchRequest struct {
	Destination *string             `json:"destination" validate:"omitempty,min=1"`
	StartDate   *openapi_types.Date `json:"startDate"`
	EndDate     *openapi_types.Date `json:"endDate"`
	Activities  *[]string           `json:"activities" validate:"omitempty,dive,required"`
}

// ActivityRequest is the body of POST /trips/{id}/activities.
type ActivityRequest struct {
	Activity string `json:"activity" validate:"required"`
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	paginate(w, r, s.Trips.List())
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.Trips.Get(chi.URLParam(r, "id"))
	if !ok {
		notFound(w, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decode(w, r, &body) {
		return
	}
	if body.EndDate.Before(body.StartDate.Time) {
		badRequest(w, "endDate must not be before startDate")
		return
	}
	activities := body.Activities
	if activities == nil {
		activities = []string{}
	}

	trip, err := s.Trips.Add(r.Context(), domain.TripDraft{
		Destination: body.Destination,
		StartDate:   body.StartDate.Format(isoDate),
		EndDate:     body.EndDate.Format(isoDate),
		Activities:  activities,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// UpdateTrip handles PATCH /trips/{id}.
// When only one date is patched it is checked against the stored other one.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body TripPatchRequest
	if !decode(w, r, &body) {
		return
	}

	patch := domain.TripPatch{Destination: body.Destination, Activities: body.Activities}
	if body.StartDate != nil {
		d := body.StartDate.Format(isoDate)
		patch.StartDate = &d
	}
	if body.EndDate != nil {
		d := body.EndDate.Format(isoDate)
		patch.EndDate = &d
	}
	if current, ok := s.Trips.Get(id); ok {
		next := patch.Apply(current)
		if next.EndDate < next.StartDate {
			badRequest(w, "endDate must not be before startDate")
			return
		}
	}

	trip, err := s.Trips.Update(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.Trips.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddActivity handles POST /trips/{id}/activities.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	var body ActivityRequest
	if !decode(w, r, &body) {
		return
	}
	trip, err := s.Trips.AddActivity(r.Context(), chi.URLParam(r, "id"), body.Activity)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// RemoveActivity handles DELETE /trips/{id}/activities/{index}.
func (s *Server) RemoveActivity(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		badRequest(w, "index must be an integer")
		return
	}
	trip, err := s.Trips.RemoveActivity(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}
