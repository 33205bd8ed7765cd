package httpapi

import (
	"encoding/json"
	"net/http"

	"studiod/internal/backend"
	"studiod/internal/studio"
	"studiod/pkg/types"
)

// HTTPError is an optional interface services can implement to control the
// HTTP status code of an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case backend.IsNotFound(err):
		return http.StatusNotFound
	case studio.IsBusy(err):
		return http.StatusTooManyRequests
	case backend.IsOutOfMemory(err):
		return http.StatusInsufficientStorage
	case backend.IsUnavailable(err):
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// errorCode returns the machine-readable code for known error classes, or
// empty when the status alone is enough.
func errorCode(err error) string {
	switch {
	case backend.IsNotFound(err):
		return "model_not_found"
	case studio.IsBusy(err):
		return "engine_busy"
	case backend.IsOutOfMemory(err):
		return "out_of_memory"
	case backend.IsUnavailable(err):
		return "backend_unavailable"
	}
	return ""
}

// errorType names the OpenAI error class for a status code.
func errorType(status int) string {
	switch {
	case status == http.StatusTooManyRequests:
		return "rate_limit_error"
	case status >= 500:
		return "server_error"
	default:
		return "invalid_request_error"
	}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && zlog != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}

// writeJSONError writes the plain error shape used by the admin endpoints.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

// writeAPIError writes the OpenAI-style error envelope used by the /v1
// endpoints.
func writeAPIError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, types.ErrorEnvelope{Error: types.APIError{
		Message: msg,
		Type:    errorType(status),
		Code:    code,
	}})
}

// writeModelNotLoaded is the 400 every inference endpoint returns while no
// model is loaded.
func writeModelNotLoaded(w http.ResponseWriter) {
	writeAPIError(w, http.StatusBadRequest,
		"No model loaded. Use /load endpoint first.", "model_not_loaded")
}
