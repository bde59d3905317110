package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteServiceError maps a service error onto the wire. Anything without a
// client-facing status collapses to a generic 500 so internals never leak.
func WriteServiceError(w http.ResponseWriter, err error) error {
	var se *serrors.Error
	if !errors.As(err, &se) || se.Status >= http.StatusInternalServerError {
		return WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error", nil)
	}
	return WriteError(w, se.Status, se.Code, se.Message, nil)
}
