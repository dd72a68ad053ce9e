package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// UserResolver loads the user behind a validated token.
type UserResolver interface {
	CurrentUser(ctx context.Context, id int64) (*domain.User, error)
}

// AuthMiddleware authenticates requests carrying a bearer token.
type AuthMiddleware struct {
	tokens auth.JWTService
	users  UserResolver
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(tokens auth.JWTService, users UserResolver) *AuthMiddleware {
	if tokens == nil {
		panic("jwt service cannot be nil")
	}
	if users == nil {
		panic("user resolver cannot be nil")
	}
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Authenticate validates the bearer token, reloads the user it names and
// places the user and actor in the request context. Every failure ends the
// request with 401, except a disabled account which gets 403.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			msg := "Invalid authorization format"
			if r.Header.Get("Authorization") == "" {
				msg = "Authorization header required"
			}
			shared.RespondWithError(w, r, http.StatusUnauthorized, msg)
			return
		}

		claims, err := m.tokens.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Token expired", err)
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err,
					shared.WithElevatedLogLevel())
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		user, err := m.users.CurrentUser(r.Context(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrForbidden):
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "User account is disabled", err)
			case errors.Is(err, domain.ErrUnauthenticated):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Could not validate credentials", err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		ctx := shared.WithUser(r.Context(), user)
		log := logger.FromContext(ctx).With(slog.Int64("user_id", user.ID))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose actor is not an admin. It must run
// after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, _ := shared.ActorFromContext(r.Context())
		if err := domain.RequireAdmin(actor); err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Admin access required", err,
				shared.WithElevatedLogLevel())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
