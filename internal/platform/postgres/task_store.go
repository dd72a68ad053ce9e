package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// taskColumns is the column list every SELECT uses; scanTask reads them in
// this order.
const taskColumns = `id, title, description, status, priority, due_date, assigned_to, created_by, created_at, updated_at, completed_at, version`

// PostgresTaskStore implements store.TaskStore on PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a task store over db. A nil logger falls back
// to slog.Default.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The id comes from the database; RETURNING hands it back in the same
	// round trip.
	query := `
		INSERT INTO tasks (title, description, status, priority, due_date, assigned_to,
			created_by, created_at, updated_at, completed_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullString(task.DueDate),
		nullInt64(task.AssignedTo),
		task.CreatedBy,
		task.CreatedAt,
		task.UpdatedAt,
		nullTime(task.CompletedAt),
		task.Version,
	).Scan(&task.ID)
	if err != nil {
		// A foreign key failure is a caller mistake (unknown user), not an
		// outage, so it is logged at a lower level.
		if IsForeignKeyViolation(err) {
			log.Warn("task references a missing user",
				slog.String("error", err.Error()),
				slog.Int64("created_by", task.CreatedBy))
		} else {
			log.Error("failed to create task", slog.String("error", err.Error()))
		}
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("created_by", task.CreatedBy))
	return nil
}

// GetByID implements store.TaskStore.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get", "query failed", MapError(err))
	}
	return task, nil
}

// List implements store.TaskStore.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Without a filter admins see every task. The id tiebreak keeps the order
	// stable for tasks created in the same instant.
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if filter.AssignedTo != nil {
		query += ` WHERE assigned_to = $1`
		args = append(args, *filter.AssignedTo)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	// Start non-nil so an empty result encodes as [] rather than null
	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "iteration failed", err)
	}
	return tasks, nil
}

// Update implements store.TaskStore.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task, expectedVersion int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5,
			assigned_to = $6, updated_at = $7, completed_at = $8, version = $9
		WHERE id = $10
	`
	args := []any{
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullString(task.DueDate),
		nullInt64(task.AssignedTo),
		task.UpdatedAt,
		nullTime(task.CompletedAt),
		task.Version,
		task.ID,
	}
	// A positive expectedVersion makes the write conditional. Zero means the
	// caller did not ask for a version check and the update always applies.
	if expectedVersion > 0 {
		query += ` AND version = $11`
		args = append(args, expectedVersion)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return store.NewStoreError("task", "update", "update failed", MapError(err))
	}

	err = CheckRowsAffected(result, store.ErrTaskNotFound)
	if err == nil {
		log.Debug("task updated",
			slog.Int64("task_id", task.ID),
			slog.Int("version", task.Version))
		return nil
	}
	if expectedVersion == 0 || !errors.Is(err, store.ErrTaskNotFound) {
		return err
	}

	// The conditional write missed: tell a stale version from a vanished row.
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, task.ID).
		Scan(&exists); err != nil {
		return store.NewStoreError("task", "update", "existence check failed", MapError(err))
	}
	if exists {
		log.Info("task version conflict",
			slog.Int64("task_id", task.ID),
			slog.Int("expected_version", expectedVersion))
		return fmt.Errorf("%w: expected version %d", store.ErrVersionConflict, expectedVersion)
	}
	return store.ErrTaskNotFound
}

// Delete implements store.TaskStore.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// scanTask reads one row in taskColumns order. Nullable columns go through
// sql.Null types and become nil pointers on the domain task.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t           domain.Task
		status      string
		priority    string
		description sql.NullString
		dueDate     sql.NullString
		assignedTo  sql.NullInt64
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&status,
		&priority,
		&dueDate,
		&assignedTo,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
		&completedAt,
		&t.Version,
	); err != nil {
		return nil, err
	}

	t.Status = domain.Status(status)
	t.Priority = domain.Priority(priority)
	if description.Valid {
		t.Description = &description.String
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.String
	}
	if assignedTo.Valid {
		t.AssignedTo = &assignedTo.Int64
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}
