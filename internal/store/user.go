package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// UserStore persists user identities.
type UserStore interface {
	// Create inserts user and sets its ID.
	// Returns ErrEmailExists if the email is already registered (case-insensitive).
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if no user has id.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail matches case-insensitively.
	// Returns ErrUserNotFound if no user has the address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns every user, newest first.
	List(ctx context.Context) ([]domain.User, error)

	// UpdateLastLogin stamps a successful authentication.
	// Returns ErrUserNotFound if no user has id.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
