package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// PostRequest is the body of POST /feed.
type PostRequest struct {
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	Location string `json:"location"`
}

// PostPatchRequest is the body of PATCH /feed/{id}. Absent fields are unchanged.
type PostPatchRequest struct {
	Content  *string `json:"content" validate:"omitempty,min=1"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	Location *string `json:"location"`
}

// CommentRequest is the body of POST /feed/{id}/comments.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// LikeResponse reports the like state after POST /feed/{id}/like.
type LikeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// ListPosts handles GET /feed. Posts are newest first.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	paginate(w, r, s.Feed.List())
}

// GetPost handles GET /feed/{id}.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.Feed.Get(chi.URLParam(r, "id"))
	if !ok {
		notFound(w, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /feed.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	var body PostRequest
	if !decode(w, r, &body) {
		return
	}
	post, err := s.Feed.AddPost(r.Context(), domain.PostDraft{
		Content:  body.Content,
		ImageURL: body.ImageURL,
		Location: body.Location,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PATCH /feed/{id}.
func (s *Server) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var body PostPatchRequest
	if !decode(w, r, &body) {
		return
	}
	post, err := s.Feed.UpdatePost(r.Context(), chi.URLParam(r, "id"), domain.PostPatch{
		Content:  body.Content,
		ImageURL: body.ImageURL,
		Location: body.Location,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /feed/{id}.
func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.Feed.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike handles POST /feed/{id}/like.
func (s *Server) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	liked, err := s.Feed.ToggleLike(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := LikeResponse{Liked: liked}
	if post, ok := s.Feed.Get(id); ok {
		resp.Likes = len(post.Likes)
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddComment handles POST /feed/{id}/comments.
func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	var body CommentRequest
	if !decode(w, r, &body) {
		return
	}
	c, err := s.Feed.AddComment(r.Context(), chi.URLParam(r, "id"), body.Content)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
