package domain

import (
	"strings"
	"time"
)

// Role is a user's privilege level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores bytes past 72
)

// User is a registered identity.
type User struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           Role       `json:"role"`
	Active         bool       `json:"is_active"`
	Password       string     `json:"-"` // plaintext, only set between request and hashing
	HashedPassword string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// NewUser builds an active user with a plaintext password. The caller hashes
// the password before the user is stored.
func NewUser(name, email, password string, role Role, now time.Time) (*User, error) {
	u := &User{
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Role:      role,
		Active:    true,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the fields required to persist a user.
func (u *User) Validate() error {
	if u.Name == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if u.Email == "" {
		return NewValidationError("email", "cannot be empty", nil)
	}
	if !validEmail(u.Email) {
		return NewValidationError("email", "invalid format", nil)
	}
	if !u.Role.Valid() {
		return newEnumError("role", string(u.Role), roleNames())
	}

	if u.Password != "" {
		if len(u.Password) < minPasswordLength {
			return NewValidationError("password", "must be at least 8 characters", nil)
		}
		if len(u.Password) > maxPasswordLength {
			return NewValidationError("password", "must be at most 72 characters", nil)
		}
	} else if u.HashedPassword == "" {
		return NewValidationError("password", "cannot be empty", nil)
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor returns the identity used for access decisions.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// NormalizeEmail lowercases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail is a shape check only; request bodies are validated more strictly
// at the HTTP boundary.
func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return false
	}
	host := email[at+1:]
	dot := strings.LastIndexByte(host, '.')
	return dot > 0 && dot < len(host)-1
}

func roleNames() []string {
	names := make([]string, len(Roles))
	for i, r := range Roles {
		names[i] = string(r)
	}
	return names
}
