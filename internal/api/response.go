package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/assetinv/internal/model"
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
	jsonResponse(w, status, map[string]string{"message": message})
}

// decodeJSON decodes a JSON request body into the given target. Numbers are
// kept as json.Number so amounts are not rounded through float64.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(target)
}

// errorStatus maps an error kind to its HTTP status and client message.
// Errors of no known kind are server errors and get fallback as message.
func errorStatus(err error, fallback string) (int, string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, model.ErrValidation):
		status, message = http.StatusBadRequest, "Invalid request"
	case errors.Is(err, model.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, model.ErrNoToken):
		status, message = http.StatusUnauthorized, "No token provided"
	case errors.Is(err, model.ErrInvalidToken):
		status, message = http.StatusForbidden, "Invalid token"
	case errors.Is(err, model.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, model.ErrConflict):
		status, message = http.StatusConflict, "Conflict"
	default:
		return status, message
	}

	var e *model.Error
	if errors.As(err, &e) {
		message = e.Message
	}
	return status, message
}

// writeError responds with the status for err. Server errors are logged.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := errorStatus(err, fallback)
	if status == http.StatusInternalServerError {
		slog.Error(fallback, "method", r.Method, "path", r.URL.Path, "error", err)
	}
	jsonError(w, status, message)
}
