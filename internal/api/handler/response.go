package handler

import (
	"encoding/json"
	"net/http"
)

// JSON writes data with the given status. A nil data writes the header only,
// which is what 202 job acknowledgements and 204 moderation updates use.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

// ErrorResponse is the error body for every non-2xx response. Error is a
// stable machine-readable code (invalid_request, empty_series, ...), Message
// is free-form detail for humans.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error writes an ErrorResponse with the given status and code.
func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}
