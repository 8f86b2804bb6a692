package handler

import "net/http"

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Category string `json:"category"`
	Message  string `json:"message" validate:"required"`
}

// SubmitFeedback handles POST /feedback.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var body FeedbackRequest
	if !decode(w, r, &body) {
		return
	}
	fb, err := s.Feedback.Submit(r.Context(), body.Rating, body.Category, body.Message)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}
