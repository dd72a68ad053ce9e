package mocks

import (
	"cmp"
	"context"
	"database/sql"
	"slices"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// TaskStore implements store.TaskStore over a MemoryDB.
type TaskStore struct {
	db *MemoryDB
}

var _ store.TaskStore = (*TaskStore)(nil)

// WithTx implements store.TaskStore. Transactions are handled by UnitOfWork.
func (s *TaskStore) WithTx(*sql.Tx) store.TaskStore { return s }

// Create implements store.TaskStore.
func (s *TaskStore) Create(_ context.Context, task *domain.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpTaskCreate); err != nil {
		return err
	}
	if err := s.checkRefs(task); err != nil {
		return store.NewStoreError("task", "create", "insert failed", err)
	}

	s.db.nextTaskID++
	task.ID = s.db.nextTaskID
	s.db.tasks[task.ID] = *task
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpTaskGet); err != nil {
		return nil, err
	}
	t, ok := s.db.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

// List implements store.TaskStore, newest first.
func (s *TaskStore) List(_ context.Context, filter store.TaskFilter) ([]domain.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpTaskList); err != nil {
		return nil, err
	}

	out := make([]domain.Task, 0, len(s.db.tasks))
	for _, t := range s.db.tasks {
		if filter.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *filter.AssignedTo) {
			continue
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b domain.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(_ context.Context, task *domain.Task, expectedVersion int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpTaskUpdate); err != nil {
		return err
	}
	current, ok := s.db.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	if expectedVersion != 0 && current.Version != expectedVersion {
		return store.ErrVersionConflict
	}
	if err := s.checkRefs(task); err != nil {
		return store.NewStoreError("task", "update", "update failed", err)
	}
	task.CreatedAt = current.CreatedAt
	task.CreatedBy = current.CreatedBy
	s.db.tasks[task.ID] = *task
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpTaskDelete); err != nil {
		return err
	}
	if _, ok := s.db.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.db.tasks, id)
	return nil
}

// checkRefs mirrors the foreign keys on tasks.
func (s *TaskStore) checkRefs(task *domain.Task) error {
	if task.AssignedTo != nil {
		if _, ok := s.db.users[*task.AssignedTo]; !ok {
			return store.ErrInvalidEntity
		}
	}
	if _, ok := s.db.users[task.CreatedBy]; !ok {
		return store.ErrInvalidEntity
	}
	return nil
}
