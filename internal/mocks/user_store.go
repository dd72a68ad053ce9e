package mocks

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// UserStore implements store.UserStore over a MemoryDB.
type UserStore struct {
	db *MemoryDB
}

var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.
func (s *UserStore) WithTx(*sql.Tx) store.UserStore { return s }

// Create implements store.UserStore.
func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpUserCreate); err != nil {
		return err
	}
	if user.HashedPassword == "" {
		return domain.NewValidationError("password", "must be hashed before storage", nil)
	}
	for _, existing := range s.db.users {
		if existing.Email == domain.NormalizeEmail(user.Email) {
			return store.ErrEmailExists
		}
	}

	s.db.nextUserID++
	user.ID = s.db.nextUserID
	stored := *user
	stored.Email = domain.NormalizeEmail(stored.Email)
	stored.Password = ""
	s.db.users[user.ID] = stored
	return nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpUserGet); err != nil {
		return nil, err
	}
	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpUserGetByEmail); err != nil {
		return nil, err
	}
	want := domain.NormalizeEmail(email)
	for _, u := range s.db.users {
		if u.Email == want {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List implements store.UserStore, newest first.
func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpUserList); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b domain.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// UpdateLastLogin implements store.UserStore.
func (s *UserStore) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpUserUpdateLogin); err != nil {
		return err
	}
	u, ok := s.db.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.LastLogin = &at
	s.db.users[id] = u
	return nil
}
