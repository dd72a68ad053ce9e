package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Failure taxonomy shared by every layer. Store and service errors wrap one of
// these so the HTTP boundary can map them with errors.Is.
var (
	// ErrValidation is returned when input falls outside an allowed set, a
	// required field is missing, or a value is malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a task or a referenced user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when an authenticated actor lacks rights for an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated is returned when there is no caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConflict is returned for duplicate identities and stale task versions.
	ErrConflict = errors.New("conflict")
)

// ValidationError describes a single invalid field. It always unwraps to
// ErrValidation.
type ValidationError struct {
	Field   string
	Message string
	// Allowed lists the accepted values when the field is drawn from a closed set.
	Allowed []string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	if len(e.Allowed) > 0 {
		msg += fmt.Sprintf(" (allowed: %s)", strings.Join(e.Allowed, ", "))
	}
	return msg
}

// Unwrap returns ErrValidation, or the wrapped cause when one was supplied.
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// newEnumError reports a value outside a closed set.
func newEnumError(field, value string, allowed []string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%q is not allowed", value),
		Allowed: allowed,
	}
}
