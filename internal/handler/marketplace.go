package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// ItemRequest is the body of POST /marketplace.
type ItemRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
	Category    string  `json:"category" validate:"required"`
	Location    string  `json:"location"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
}

// ItemPatchRequest is the body of PATCH /marketplace/{id}. Absent fields are unchanged.
type ItemPatchRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	Location    *string  `json:"location"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
}

// ListItems handles GET /marketplace.
// ?q= matches title or description case-insensitively, ?category= matches
// exactly; ?page= and ?limit= paginate the result.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := s.Marketplace.Search(domain.ItemFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	})
	paginate(w, r, items)
}

// GetItem handles GET /marketplace/{id}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.Marketplace.Get(chi.URLParam(r, "id"))
	if !ok {
		notFound(w, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /marketplace.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	var body ItemRequest
	if !decode(w, r, &body) {
		return
	}
	item, err := s.Marketplace.Add(r.Context(), domain.ItemDraft{
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
		Category:    body.Category,
		Location:    body.Location,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PATCH /marketplace/{id}.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var body ItemPatchRequest
	if !decode(w, r, &body) {
		return
	}
	item, err := s.Marketplace.Update(r.Context(), chi.URLParam(r, "id"), domain.ItemPatch{
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
		Category:    body.Category,
		Location:    body.Location,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /marketplace/{id}.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.Marketplace.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
