package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// TaskFilter narrows List. The zero value matches every task.
type TaskFilter struct {
	AssignedTo *int64
}

// TaskStore persists tasks. It is the only writer of task rows.
type TaskStore interface {
	// Create inserts task and sets its ID.
	// Returns ErrInvalidEntity if AssignedTo or CreatedBy reference no user.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID returns ErrTaskNotFound if no task has id.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns matching tasks ordered newest-created first.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)

	// Update writes every mutable field of task. When expectedVersion is
	// positive the write only succeeds if the stored version still equals it,
	// otherwise ErrVersionConflict is returned. A zero expectedVersion writes
	// unconditionally (last write wins).
	// Returns ErrTaskNotFound if the row is gone.
	Update(ctx context.Context, task *domain.Task, expectedVersion int) error

	// Delete returns ErrTaskNotFound if no row was removed.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
