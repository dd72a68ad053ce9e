package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// backend is what the subcommands need from the database.
type backend interface {
	UnitOfWork() store.UnitOfWork
	Hasher() auth.PasswordHasher
	Logger() *slog.Logger
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int64, error)
	Close() error
}

type postgresBackend struct {
	db     *sql.DB
	uow    store.UnitOfWork
	hasher auth.PasswordHasher
	logger *slog.Logger
}

var _ backend = (*postgresBackend)(nil)

// connectPostgres opens the configured database. Only the server and
// database config sections are required.
func connectPostgres(ctx context.Context, configDir string) (backend, error) {
	cfg, err := config.LoadForTooling(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Debug("connected to database", slog.String("url", postgres.MaskDatabaseURL(cfg.Database.URL)))

	return &postgresBackend{
		db:     db,
		uow:    postgres.NewUnitOfWork(db, log),
		hasher: auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		logger: log,
	}, nil
}

func (b *postgresBackend) UnitOfWork() store.UnitOfWork { return b.uow }

func (b *postgresBackend) Hasher() auth.PasswordHasher { return b.hasher }

func (b *postgresBackend) Logger() *slog.Logger { return b.logger }

func (b *postgresBackend) Migrate(ctx context.Context) error {
	return postgres.InitializeSchema(ctx, b.db, b.logger)
}

func (b *postgresBackend) SchemaVersion(ctx context.Context) (int64, error) {
	return postgres.SchemaVersion(ctx, b.db)
}

func (b *postgresBackend) Close() error { return b.db.Close() }
