package api

import (
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// RegisterRequest is the payload of POST /api/auth/register. A role field,
// if sent, is ignored.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// LoginUserResponse is the user block of a login response.
type LoginUserResponse struct {
	UserResponse
	LastLogin *time.Time `json:"last_login"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        LoginUserResponse `json:"user"`
}

// AdminUserResponse is a row of GET /api/admin/users.
type AdminUserResponse struct {
	UserResponse
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskRequest is the payload of POST /api/admin/tasks. Title is
// required; every other field is optional.
type CreateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	AssignedTo  *int64  `json:"assigned_to"`
}

// Fields converts the request to domain input.
func (req CreateTaskRequest) Fields() domain.TaskFields {
	return domain.TaskFields{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
	}
}

// UpdateTaskRequest is the payload of PUT /api/{admin,user}/tasks/{id}.
// Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	CreateTaskRequest
	ExpectedVersion *int `json:"expected_version" validate:"omitempty,min=1"`
}

// Patch converts the request to a domain patch.
func (req UpdateTaskRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{
		TaskFields:      req.Fields(),
		ExpectedVersion: req.ExpectedVersion,
	}
}

// MessageResponse is a body carrying only a human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string   `json:"status"`
	Failing []string `json:"failing,omitempty"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
