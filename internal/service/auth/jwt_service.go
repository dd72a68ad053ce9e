// Package auth issues and validates access tokens and hashes passwords.
package auth

import (
	"context"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// JWTService defines operations for managing JWT access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token carrying the user's id and role.
	GenerateToken(ctx context.Context, userID int64, role domain.Role) (string, error)

	// ValidateToken verifies the signature and time claims of tokenString and
	// returns its claims. Errors are one of ErrInvalidToken, ErrExpiredToken
	// or ErrTokenNotYetValid.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of an access token.
type Claims struct {
	// UserID is the id of the user the token was issued for.
	UserID int64 `json:"uid"`

	// Role is the role the user held when the token was issued. Callers that
	// need the current role reload the user.
	Role domain.Role `json:"role"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
