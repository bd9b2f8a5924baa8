// internal/api/handlers/responses.go
package handlers

import (
	"encoding/json"
	"net/http"

	"mpvshelf/internal/shared"
)

// ErrorResponse is a standard format for API error messages. The error field
// carries the legacy "<Title>: <Description>" string clients parse.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// MessageResponse is a standard format for simple API messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithCommandError maps an error's kind to an HTTP status and keeps
// the legacy error string intact on the wire.
func respondWithCommandError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	kind := shared.KindOf(err)
	switch kind {
	case shared.KindNotFound:
		code = http.StatusNotFound
	case shared.KindInvalid:
		code = http.StatusBadRequest
	case shared.KindUnreachable:
		code = http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, ErrorResponse{Error: err.Error(), Kind: string(kind)})
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
