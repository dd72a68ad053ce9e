package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"malformed body", fmt.Errorf("%w: EOF", shared.ErrMalformedBody), http.StatusBadRequest},
		{"validation", domain.NewValidationError("title", "is required", nil), http.StatusUnprocessableEntity},
		{"not found", fmt.Errorf("%w: task 9", domain.ErrNotFound), http.StatusNotFound},
		{"forbidden", fmt.Errorf("%w: nope", domain.ErrForbidden), http.StatusForbidden},
		{"inactive", service.ErrUserInactive, http.StatusForbidden},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"conflict", fmt.Errorf("%w: %w", domain.ErrConflict, store.ErrVersionConflict), http.StatusConflict},
		{"store failure", service.NewServiceError("task", "create", "store operation failed", errors.New("boom")), http.StatusInternalServerError},
		{"raw store not found is internal", store.ErrTaskNotFound, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, genericErrorMessage},
		{
			"validation keeps field detail",
			domain.NewValidationError("assigned_to", "user with id 5 does not exist", store.ErrUserNotFound),
			"invalid assigned_to: user with id 5 does not exist",
		},
		{"duplicate email", fmt.Errorf("%w: email already registered: %w", domain.ErrConflict, store.ErrEmailExists), "Email already registered"},
		{"version conflict", fmt.Errorf("%w: %w", domain.ErrConflict, store.ErrVersionConflict), "Task was modified by another request"},
		{"credentials", service.ErrInvalidCredentials, "Incorrect email or password"},
		{"inactive", service.ErrUserInactive, "User account is disabled"},
		{"forbidden", fmt.Errorf("%w: admin role required", domain.ErrForbidden), "Not authorized"},
		{"not found", fmt.Errorf("%w: task 3", domain.ErrNotFound), "Task not found"},
		{
			"internal detail is hidden",
			service.NewServiceError("user", "list", "failed", errors.New("pq: relation \"users\" does not exist")),
			genericErrorMessage,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name"  validate:"max=3"`
	}
	err := shared.ValidateRequest(payload{Name: "toolong"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "invalid email: is required; invalid name: must be at most 3", SanitizeValidationError(verrs))
	assert.Equal(t, http.StatusUnprocessableEntity, MapErrorToStatusCode(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(nil))
}
