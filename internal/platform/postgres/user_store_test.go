package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumnNames = []string{
	"id", "name", "email", "hashed_password", "role", "is_active", "created_at", "updated_at", "last_login",
}

func TestPostgresUserStore_Create(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	user := &domain.User{
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: "$2a$10$hash",
		Role:           domain.RoleUser,
		Active:         true,
		CreatedAt:      fixedTime,
		UpdatedAt:      fixedTime,
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ada", "ada@example.com", "$2a$10$hash", "user", true, fixedTime, fixedTime).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	require.NoError(t, s.Create(context.Background(), user))
	assert.Equal(t, int64(11), user.ID)
}

func TestPostgresUserStore_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_lower_key"})

	err := s.Create(context.Background(), &domain.User{Name: "Ada", Email: "ADA@example.com", HashedPassword: "h"})
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.True(t, store.IsDuplicateError(err))
}

func TestPostgresUserStore_CreateRequiresHash(t *testing.T) {
	db, _ := newMock(t)
	s := NewPostgresUserStore(db, nil)

	err := s.Create(context.Background(), &domain.User{Name: "Ada", Email: "ada@example.com", Password: "plaintext1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostgresUserStore_GetByEmailCaseInsensitive(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectQuery(`WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("ADA@Example.com").
		WillReturnRows(sqlmock.NewRows(userColumnNames).
			AddRow(int64(1), "Ada", "ada@example.com", "h", "admin", true, fixedTime, fixedTime, fixedTime))

	user, err := s.GetByEmail(context.Background(), "ADA@Example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	require.NotNil(t, user.LastLogin)
	assert.Equal(t, fixedTime, *user.LastLogin)
}

func TestPostgresUserStore_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestPostgresUserStore_List(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectQuery(`FROM users ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(userColumnNames).
			AddRow(int64(2), "Bo", "bo@example.com", "h", "user", false, fixedTime, fixedTime, nil).
			AddRow(int64(1), "Ada", "ada@example.com", "h", "admin", true, fixedTime, fixedTime, nil))

	users, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.False(t, users[0].Active)
	assert.Nil(t, users[0].LastLogin)
	assert.Equal(t, "Ada", users[1].Name)
}

func TestPostgresUserStore_UpdateLastLogin(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectExec(`UPDATE users SET last_login`).
		WithArgs(fixedTime, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET last_login`).
		WithArgs(fixedTime, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.UpdateLastLogin(context.Background(), 1, fixedTime))
	assert.ErrorIs(t, s.UpdateLastLogin(context.Background(), 2, fixedTime), store.ErrUserNotFound)
}

func TestPostgresAuditStore_Create(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresAuditStore(db, nil)

	entry := domain.NewTaskAudit(domain.Actor{ID: 1, Role: domain.RoleAdmin}, domain.AuditTaskDeleted, 9,
		map[string]string{"title": "X"}, fixedTime)

	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(int64(1), "task.delete", "task", int64(9), `{"title":"X"}`, fixedTime).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))

	require.NoError(t, s.Create(context.Background(), &entry))
	assert.Equal(t, int64(100), entry.ID)
}
