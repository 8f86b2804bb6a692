package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    openapi_types.Email `json:"email" validate:"required"`
	Password string              `json:"password" validate:"required"`
	Name     string              `json:"name" validate:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    openapi_types.Email `json:"email" validate:"required"`
	Password string              `json:"password" validate:"required"`
}

// ProfilePatchRequest is the body of PATCH /auth/me. Absent fields are unchanged.
type ProfilePatchRequest struct {
	Name     *string              `json:"name" validate:"omitempty,min=1"`
	Email    *openapi_types.Email `json:"email"`
	Phone    *string              `json:"phone"`
	Bio      *string              `json:"bio"`
	Location *string              `json:"location"`
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if !decode(w, r, &body) {
		return
	}
	u, err := s.Session.Register(r.Context(), string(body.Email), body.Password, body.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decode(w, r, &body) {
		return
	}
	u, err := s.Session.Login(r.Context(), string(body.Email), body.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Logout handles POST /auth/logout. It always succeeds; a failure to clear
// the stored session is logged only.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.Session.Logout(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "logout could not clear stored session", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMe handles GET /auth/me.
func (s *Server) GetMe(w http.ResponseWriter, _ *http.Request) {
	u, ok := s.Session.Current()
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "no active session")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateMe handles PATCH /auth/me.
func (s *Server) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var body ProfilePatchRequest
	if !decode(w, r, &body) {
		return
	}
	patch := domain.ProfilePatch{
		Name:     body.Name,
		Phone:    body.Phone,
		Bio:      body.Bio,
		Location: body.Location,
	}
	if body.Email != nil {
		email := string(*body.Email)
		patch.Email = &email
	}
	u, err := s.Session.UpdateProfile(r.Context(), patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
