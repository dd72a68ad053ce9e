package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// UserHandler serves the caller's profile and the admin user directory.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users service.UserService, log *slog.Logger) *UserHandler {
	if users == nil {
		panic("user service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: log.With(slog.String("component", "user_handler")),
	}
}

// Profile handles GET /api/user/profile.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthenticated)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// ListUsers handles GET /api/admin/users, newest first.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	users, err := h.users.ListUsers(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]AdminUserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, AdminUserResponse{
			UserResponse: newUserResponse(&users[i]),
			CreatedAt:    users[i].CreatedAt,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
