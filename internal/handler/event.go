package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// EventRequest is the body of POST /events.
// maxParticipants absent or 0 means unlimited.
type EventRequest struct {
	Title           string             `json:"title" validate:"required"`
	Description     string             `json:"description"`
	Location        string             `json:"location" validate:"required"`
	Date            openapi_types.Date `json:"date" validate:"required"`
	Time            string             `json:"time"`
	Category        string             `json:"category"`
	MaxParticipants *int               `json:"maxParticipants" validate:"omitempty,gte=0"`
}

// EventPatchRequest is the body of PATCH /events/{id}. Absent fields are unchanged.
type EventPatchRequest struct {
	Title           *string             `json:"title" validate:"omitempty,min=1"`
	Description     *string             `json:"description"`
	Location        *string             `json:"location" validate:"omitempty,min=1"`
	Date            *openapi_types.Date `json:"date"`
	Time            *string             `json:"time"`
	Category        *string             `json:"category"`
	MaxParticipants *int                `json:"maxParticipants" validate:"omitempty,gte=0"`
}

// ListEvents handles GET /events. Events are ordered by date.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	paginate(w, r, s.Events.List())
}

// GetEvent handles GET /events/{id}.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.Events.Get(chi.URLParam(r, "id"))
	if !ok {
		notFound(w, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// CreateEvent handles POST /events.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var body EventRequest
	if !decode(w, r, &body) {
		return
	}
	ev, err := s.Events.Add(r.Context(), domain.EventDraft{
		Title:           body.Title,
		Description:     body.Description,
		Location:        body.Location,
		Date:            body.Date.Format(isoDate),
		Time:            body.Time,
		Category:        body.Category,
		MaxParticipants: body.MaxParticipants,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// UpdateEvent handles PATCH /events/{id}.
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var body EventPatchRequest
	if !decode(w, r, &body) {
		return
	}
	patch := domain.EventPatch{
		Title:           body.Title,
		Description:     body.Description,
		Location:        body.Location,
		Time:            body.Time,
		Category:        body.Category,
		MaxParticipants: body.MaxParticipants,
	}
	if body.Date != nil {
		d := body.Date.Format(isoDate)
		patch.Date = &d
	}
	ev, err := s.Events.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent handles DELETE /events/{id}.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.Events.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinEvent handles POST /events/{id}/join.
func (s *Server) JoinEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.Events.Join(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// LeaveEvent handles POST /events/{id}/leave.
func (s *Server) LeaveEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.Events.Leave(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
