package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundTaskStore records the transaction it was bound to.
type boundTaskStore struct {
	TaskStore
	tx *sql.Tx
}

func (s *boundTaskStore) WithTx(tx *sql.Tx) TaskStore { return &boundTaskStore{tx: tx} }

type boundUserStore struct {
	UserStore
	tx *sql.Tx
}

func (s *boundUserStore) WithTx(tx *sql.Tx) UserStore { return &boundUserStore{tx: tx} }

func (s *boundUserStore) UpdateLastLogin(context.Context, int64, time.Time) error { return nil }

type boundAuditStore struct {
	AuditStore
	tx *sql.Tx
}

func (s *boundAuditStore) WithTx(tx *sql.Tx) AuditStore { return &boundAuditStore{tx: tx} }

func (s *boundAuditStore) Create(context.Context, *domain.AuditEntry) error { return nil }

func testStores() Stores {
	return Stores{Tasks: &boundTaskStore{}, Users: &boundUserStore{}, Audit: &boundAuditStore{}}
}

func TestSQLUnitOfWork_DoBindsStoresToOneTx(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	uow := NewSQLUnitOfWork(db, testStores())
	err := uow.Do(context.Background(), func(ctx context.Context, s Stores) error {
		tasks := s.Tasks.(*boundTaskStore)
		users := s.Users.(*boundUserStore)
		audit := s.Audit.(*boundAuditStore)
		require.NotNil(t, tasks.tx)
		assert.Same(t, tasks.tx, users.tx)
		assert.Same(t, tasks.tx, audit.tx)
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUnitOfWork_DoRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	uow := NewSQLUnitOfWork(db, testStores())
	err := uow.Do(context.Background(), func(ctx context.Context, s Stores) error {
		return domain.ErrForbidden
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUnitOfWork_ReadOnly(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	uow := NewSQLUnitOfWork(db, testStores())
	err := uow.ReadOnly(context.Background(), func(ctx context.Context, s Stores) error {
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLUnitOfWork_RequiresStores(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Panics(t, func() { NewSQLUnitOfWork(nil, testStores()) })
	assert.Panics(t, func() { NewSQLUnitOfWork(db, Stores{}) })
}

func TestStoreErrors(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrTaskNotFound))
	assert.True(t, IsNotFoundError(ErrUserNotFound))
	assert.False(t, IsNotFoundError(ErrEmailExists))
	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.True(t, errors.Is(ErrVersionConflict, ErrConflict))

	wrapped := NewStoreError("task", "update", "write failed", ErrTaskNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, "update task: write failed: entity not found: task", wrapped.Error())
	assert.Equal(t, "create user: bad", NewStoreError("user", "create", "bad", nil).Error())
}
