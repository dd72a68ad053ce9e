package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Sentinel errors for account operations. Both wrap a domain error so the API
// can map them by category.
var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	// Both cases return this same value.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)

	// ErrUserInactive is returned when a disabled account tries to log in or use a token.
	ErrUserInactive = fmt.Errorf("%w: user account is inactive", domain.ErrForbidden)
)

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// isDomainError reports whether err already belongs to the domain taxonomy.
func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrUnauthenticated) ||
		errors.Is(err, domain.ErrConflict)
}

// taskStoreError translates a task store failure into the domain taxonomy.
// The store error stays in the chain for logging.
func taskStoreError(op string, taskID int64, err error) error {
	switch {
	case err == nil:
		return nil
	case isDomainError(err):
		// Already translated further down, e.g. a validation error raised
		// inside the unit of work.
		return err
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: task %d: %w", domain.ErrNotFound, taskID, err)
	// Only the versioned update returns a store conflict.
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: task %d was modified concurrently: %w", domain.ErrConflict, taskID, err)
	// The assignee lookup runs first, so a foreign key failure only
	// happens when the user was deleted between that lookup and the write.
	case errors.Is(err, store.ErrInvalidEntity):
		return domain.NewValidationError("assigned_to", "user does not exist", err)
	default:
		return NewServiceError("task", op, "store operation failed", err)
	}
}

// unknownAssignee is the validation error for an assigned_to that names no user.
func unknownAssignee(id int64, err error) error {
	return domain.NewValidationError("assigned_to", fmt.Sprintf("user with id %d does not exist", id), err)
}
