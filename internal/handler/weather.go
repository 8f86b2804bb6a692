package handler

import (
	"net/http"
	"strings"
)

// GetWeather handles GET /weather?location=.
// Lookups never fail; an unreachable upstream yields sample data.
func (s *Server) GetWeather(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		badRequest(w, "location is required")
		return
	}
	writeJSON(w, http.StatusOK, s.Weather.GetWeather(r.Context(), location))
}
