package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the service-level error shape surfaced to controllers. Status maps
// directly onto the HTTP status the API layer should answer with.
type Error struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(status int, code, message string, cause error) *Error {
	return &Error{Status: status, Code: code, Message: message, Cause: cause}
}

func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message, nil)
}

func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message, nil)
}

func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message, nil)
}

func Forbidden(code, message string) *Error {
	return New(http.StatusForbidden, code, message, nil)
}

// PreconditionFailed marks mutations blocked by referential integrity, e.g.
// deleting an organization that still has children or attached users.
func PreconditionFailed(code, message string) *Error {
	return New(http.StatusPreconditionFailed, code, message, nil)
}

func Internal(code, message string, cause error) *Error {
	return New(http.StatusInternalServerError, code, message, cause)
}

// StatusOf extracts the HTTP status from err, falling back to 500 for errors
// that did not originate from a service boundary.
func StatusOf(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Status
	}
	return http.StatusInternalServerError
}

func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return "INTERNAL"
}

func HasStatus(err error, status int) bool {
	var se *Error
	return errors.As(err, &se) && se.Status == status
}

func IsNotFound(err error) bool { return HasStatus(err, http.StatusNotFound) }

func IsForbidden(err error) bool { return HasStatus(err, http.StatusForbidden) }

func IsConflict(err error) bool { return HasStatus(err, http.StatusConflict) }

func IsPreconditionFailed(err error) bool {
	return HasStatus(err, http.StatusPreconditionFailed)
}
