package httpapi

import (
	"encoding/json"
	"net/http"

	"curator/internal/curator"
	"curator/internal/ollama"
	"curator/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusFor maps well-known curator errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case curator.IsNotFound(err):
		return http.StatusNotFound
	case curator.IsLocationExists(err), curator.IsBusy(err):
		return http.StatusConflict
	case curator.IsBadLocation(err), curator.IsInvalidQuery(err):
		return http.StatusBadRequest
	case curator.IsGone(err):
		return http.StatusGone
	case ollama.IsUnavailable(err):
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeError maps err to a status and writes the JSON payload.
func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}
