package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// TokenTypeBearer is the token_type reported with every issued access token.
const TokenTypeBearer = "bearer"

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// UserService provides registration, login and user lookup.
type UserService interface {
	// Register creates a regular user. Registration never grants admin.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)

	// Provision creates a user with an explicit role. It is meant for
	// operator tooling, not the public API.
	Provision(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)

	// Authenticate verifies credentials, stamps last_login and issues an access token.
	Authenticate(ctx context.Context, email, password string) (*LoginResult, error)

	// CurrentUser resolves the user behind a validated token. A deleted user
	// is unauthenticated and a disabled one is ErrUserInactive.
	CurrentUser(ctx context.Context, id int64) (*domain.User, error)

	// ListUsers returns every user, newest first. Only admins may call it.
	ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error)
}

// UserServiceImpl implements UserService.
type UserServiceImpl struct {
	uow    store.UnitOfWork
	hasher auth.PasswordHasher
	tokens  auth.JWTService
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time

	dummyOnce sync.Once
	dummy     string
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a UserService.
func NewUserService(
	uow store.UnitOfWork,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	log *slog.Logger,
	opts ...Option,
) *UserServiceImpl {
	if uow == nil {
		panic("unit of work cannot be nil")
	}
	if hasher == nil {
		panic("password hasher cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	o := buildOptions(opts)
	return &UserServiceImpl{
		uow:     uow,
		hasher:  hasher,
		tokens:  tokens,
		emitter: o.emitter,
		logger:  log.With(slog.String("component", "user_service")),
		now:     o.now,
	}
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.create(ctx, "register", name, email, password, domain.RoleUser)
}

// Provision implements UserService.
func (s *UserServiceImpl) Provision(
	ctx context.Context,
	name, email, password string,
	role domain.Role,
) (*domain.User, error) {
	return s.create(ctx, "provision", name, email, password, role)
}

func (s *UserServiceImpl) create(
	ctx context.Context,
	op, name, email, password string,
	role domain.Role,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password, role, s.now())
	if err != nil {
		log.Debug("rejected user fields", slog.String("error", err.Error()))
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("user", op, "failed to hash password", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = s.uow.Do(ctx, func(ctx context.Context, st store.Stores) error {
		return st.Users.Create(ctx, user)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			log.Debug("email already registered", slog.String("email", user.Email))
			return nil, fmt.Errorf("%w: email already registered: %w", domain.ErrConflict, err)
		case isDomainError(err):
			return nil, err
		default:
			log.Error("failed to save user",
				slog.String("error", err.Error()),
				slog.String("email", user.Email))
			return nil, NewServiceError("user", op, "failed to save user", err)
		}
	}

	log.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.String("operation", op))

	// Analytics counts users, so a new account must drop cached snapshots.
	// The user is committed either way; a handler failure is only logged.
	if event, err := events.NewTaskEvent(events.UserCreated, 0, user.ID, nil, s.now()); err == nil {
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			log.Warn("user event handler failed",
				slog.String("error", err.Error()),
				slog.Int64("user_id", user.ID))
		}
	}
	return user, nil
}

// dummyPassword is hashed once and compared against when no user matches the
// email, so an unknown address costs the same hashing work as a wrong password.
const dummyPassword = "no-such-account-placeholder"

// dummyHash returns the hash of dummyPassword, computed with the configured
// hasher on first use so the cost matches real accounts.
func (s *UserServiceImpl) dummyHash() string {
	s.dummyOnce.Do(func() {
		if h, err := s.hasher.Hash(dummyPassword); err == nil {
			s.dummy = h
		}
	})
	return s.dummy
}

// Authenticate implements UserService. The token is issued inside the unit of
// work, so a signing failure rolls back the last_login stamp.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.tokens == nil {
		return nil, NewServiceError("user", "authenticate", "token issuer not configured", nil)
	}

	var (
		user  *domain.User
		token string
	)
	err := s.uow.Do(ctx, func(ctx context.Context, st store.Stores) error {
		found, err := st.Users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Burn the same hashing time a real account would.
				_ = s.hasher.Compare(s.dummyHash(), password)
				return ErrInvalidCredentials
			}
			return NewServiceError("user", "authenticate", "failed to load user", err)
		}

		// The password is checked before the active flag so account state is
		// only revealed to someone holding the right credentials.
		if err := s.hasher.Compare(found.HashedPassword, password); err != nil {
			return ErrInvalidCredentials
		}
		if !found.Active {
			return ErrUserInactive
		}

		token, err = s.tokens.GenerateToken(ctx, found.ID, found.Role)
		if err != nil {
			return NewServiceError("user", "authenticate", "failed to issue token", err)
		}

		now := s.now()
		if err := st.Users.UpdateLastLogin(ctx, found.ID, now); err != nil {
			return NewServiceError("user", "authenticate", "failed to record login", err)
		}
		found.LastLogin = &now
		user = found
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			log.Info("login rejected",
				slog.String("email", domain.NormalizeEmail(email)),
				slog.String("reason", err.Error()))
		} else {
			log.Error("login failed", slog.String("error", err.Error()))
		}
		return nil, err
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		User:        *user,
	}, nil
}

// CurrentUser implements UserService.
func (s *UserServiceImpl) CurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	var user *domain.User
	err := s.uow.ReadOnly(ctx, func(ctx context.Context, st store.Stores) error {
		found, err := st.Users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: user %d no longer exists", domain.ErrUnauthenticated, id)
			}
			return NewServiceError("user", "current_user", "failed to load user", err)
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	return user, nil
}

// ListUsers implements UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var users []domain.User
	err := s.uow.ReadOnly(ctx, func(ctx context.Context, st store.Stores) error {
		var err error
		users, err = st.Users.List(ctx)
		if err != nil {
			return NewServiceError("user", "list", "failed to list users", err)
		}
		return nil
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			slog.String("error", err.Error()))
		return nil, err
	}
	return users, nil
}
