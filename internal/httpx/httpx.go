// internal/httpx/httpx.go
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/planora/planora-server/internal/apperr"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "err", err)
	}
}

// Error maps a service error onto the wire: the taxonomy kind picks the
// status, the caller-safe message becomes the error string. Storage-level
// failures are logged with full detail but never leak it to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	}
	JSON(w, status, map[string]string{"error": apperr.Message(err)})
}

// Decode reads a JSON body into dst, rejecting unknown fields and trailing
// content so malformed requests fail deterministically at the boundary.
func Decode(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)) // 1MB
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid JSON body", err)
	}
	if dec.More() {
		return apperr.New(apperr.KindValidation, "invalid JSON body (extra content)")
	}
	return nil
}
