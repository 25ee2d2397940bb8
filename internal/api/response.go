package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/supplychain/internal/workflow"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// statusFor maps a workflow error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, workflow.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, workflow.ErrNotFound),
		errors.Is(err, workflow.ErrPermissionDeniedOrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidState),
		errors.Is(err, workflow.ErrAlreadyClaimed),
		errors.Is(err, workflow.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError reports a workflow error. Store and unknown failures are
// logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusServiceUnavailable:
		slog.Error("store unavailable", "method", r.Method, "path", r.URL.Path, "error", err)
		jsonError(w, status, "service unavailable")
	case http.StatusInternalServerError:
		slog.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		jsonError(w, status, "internal error")
	default:
		jsonError(w, status, err.Error())
	}
}
