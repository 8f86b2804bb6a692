package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// ErrorDetail is the body of every non-2xx response: {"error":{"code","message"}}.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// errorStatus maps a service error onto an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInvariant):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrStoreFailure):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeServiceError writes the JSON error for err. Store and unexpected
// failures are logged and their details hidden from the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	msg := unwrapMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	writeError(w, status, code, msg)
}

// writeError writes an ErrorResponse with the given status.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// notFound writes a 404 for a lookup the handler served from a projection.
func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, "not_found", message)
}

// badRequest writes a 422 for input rejected before reaching the service layer.
func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.FeedService.AddPost: validation error: content is required" → "content is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrUnauthorized,
		domain.ErrInvariant,
	} {
		prefix := sentinel.Error() + ": "
		if i := strings.Index(msg, prefix); i >= 0 && len(msg) > i+len(prefix) {
			return msg[i+len(prefix):]
		}
		if strings.HasSuffix(msg, sentinel.Error()) {
			return sentinel.Error()
		}
	}
	return msg
}
