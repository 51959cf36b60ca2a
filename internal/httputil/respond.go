package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ErrorBody is the error envelope every failure response uses. Code is a
// stable machine-readable string; Error is human-readable and may change.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error writes a JSON error response with a stable code.
func Error(w http.ResponseWriter, status int, message, code string) {
	JSON(w, status, ErrorBody{Error: message, Code: code})
}
