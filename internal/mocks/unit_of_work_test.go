package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	db := NewMemoryDB()
	admin := db.SeedUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})
	uow := NewUnitOfWork(db)

	boom := errors.New("boom")
	err := uow.Do(context.Background(), func(ctx context.Context, s store.Stores) error {
		task := &domain.Task{Title: "x", Status: domain.StatusTodo, Priority: domain.PriorityLow, CreatedBy: admin.ID}
		require.NoError(t, s.Tasks.Create(ctx, task))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, db.TaskCount())
	assert.Equal(t, int32(1), uow.Rollbacks.Load())
	assert.Zero(t, uow.Commits.Load())
}

func TestUnitOfWorkRollsBackOnPanic(t *testing.T) {
	db := NewMemoryDB()
	db.SeedUser(domain.User{Name: "A", Email: "a@example.com"})
	uow := NewUnitOfWork(db)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = uow.Do(context.Background(), func(ctx context.Context, s store.Stores) error {
			_ = s.Users.Create(ctx, &domain.User{Name: "B", Email: "b@example.com", HashedPassword: "h"})
			panic("kaboom")
		})
	})

	_, ok := db.User(2)
	assert.False(t, ok)
}

func TestUnitOfWorkCommits(t *testing.T) {
	db := NewMemoryDB()
	uow := NewUnitOfWork(db)

	err := uow.Do(context.Background(), func(ctx context.Context, s store.Stores) error {
		return s.Users.Create(ctx, &domain.User{Name: "A", Email: "A@Example.com", HashedPassword: "h"})
	})
	require.NoError(t, err)

	u, ok := db.User(1)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", u.Email)
	assert.Equal(t, int32(1), uow.Commits.Load())
}

func TestTaskStoreSemantics(t *testing.T) {
	db := NewMemoryDB()
	admin := db.SeedUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})
	s := db.Stores().Tasks
	ctx := context.Background()

	missing := int64(99)
	err := s.Create(ctx, &domain.Task{Title: "x", CreatedBy: admin.ID, AssignedTo: &missing})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	first := db.SeedTask(domain.Task{Title: "first", CreatedBy: admin.ID})
	second := db.SeedTask(domain.Task{Title: "second", CreatedBy: admin.ID})

	all, err := s.List(ctx, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	stale := first
	stale.Title = "changed"
	assert.ErrorIs(t, s.Update(ctx, &stale, 7), store.ErrVersionConflict)
	assert.NoError(t, s.Update(ctx, &stale, 1))

	db.FailOn(OpTaskDelete, errors.New("disk full"))
	assert.EqualError(t, s.Delete(ctx, first.ID), "disk full")
	db.FailOn(OpTaskDelete, nil)
	assert.NoError(t, s.Delete(ctx, first.ID))
	assert.ErrorIs(t, s.Delete(ctx, first.ID), store.ErrTaskNotFound)
	assert.Equal(t, 3, db.Calls(OpTaskDelete))
}
