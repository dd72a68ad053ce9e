package mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing. Without function
// fields it issues "token-<id>-<role>" and validates tokens of the same shape.
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, userID int64, role domain.Role) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	Err         error
	ValidateErr error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID int64, role domain.Role) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID, role)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf("token-%d-%s", userID, role), nil
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}

	var (
		id   int64
		role string
	)
	rest, ok := strings.CutPrefix(tokenString, "token-")
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	if _, err := fmt.Sscanf(strings.Replace(rest, "-", " ", 1), "%d %s", &id, &role); err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: id, Role: domain.Role(role)}, nil
}
