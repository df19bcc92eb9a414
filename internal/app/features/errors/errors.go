// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/storehub/internal/app/system/reqlog"
)

// errorResponse is the JSON body of every API error.
type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Handler is the errors feature handler.
// No DB needed; it just writes JSON.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers requests for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusNotFound, "The requested resource does not exist.")
}

// MethodNotAllowed answers requests whose method the route does not support.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusMethodNotAllowed, "This method is not supported for the requested resource.")
}

// TooManyRequests answers requests rejected by the API rate limiter.
func (h *Handler) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusTooManyRequests, "Too many requests. Please slow down and retry shortly.")
}

// Write sends a JSON error body with the given status. The error field is
// the standard status text in snake case, e.g. "not_found".
func Write(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:     code(status),
		Message:   message,
		RequestID: reqlog.FromContext(r.Context()),
	})
}

func code(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
