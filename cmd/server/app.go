package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/api"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/cache"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// dependencies are the infrastructure pieces the services are built on.
type dependencies struct {
	uow    store.UnitOfWork
	tokens auth.JWTService
	hasher auth.PasswordHasher
	// snapshots is nil when no cache is configured.
	snapshots service.SnapshotCache
	health    map[string]api.HealthCheck
}

// application holds the wired services and the resources to release on
// shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db    *sql.DB
	cache *cache.Cache

	tokens  auth.JWTService
	emitter *events.InMemoryEventEmitter
	health  map[string]api.HealthCheck

	userService      service.UserService
	taskService      service.TaskService
	analyticsService service.AnalyticsService
}

// newApplication wires the production dependencies: PostgreSQL stores,
// HMAC tokens, bcrypt and, when configured, the Redis snapshot cache. A cache
// that cannot be reached is logged and skipped.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	deps := dependencies{
		uow:    postgres.NewUnitOfWork(db, log),
		tokens: tokens,
		hasher: auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		health: map[string]api.HealthCheck{"database": db.PingContext},
	}

	var redisCache *cache.Cache
	if cfg.Cache.RedisURL != "" {
		redisCache, err = cache.Open(ctx, cfg.Cache, log)
		if err != nil {
			log.Warn("analytics cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			deps.snapshots = redisCache
			deps.health["cache"] = redisCache.Ping
		}
	}

	app := assemble(cfg, log, deps)
	app.db = db
	app.cache = redisCache
	return app, nil
}

// assemble builds the services over deps and subscribes the analytics
// service to task and user events so writes invalidate the cached snapshot.
func assemble(cfg *config.Config, log *slog.Logger, deps dependencies) *application {
	emitter := events.NewInMemoryEventEmitter(log)

	analyticsService := service.NewAnalyticsService(deps.uow, deps.snapshots, log)
	emitter.RegisterHandler(analyticsService)

	app := &application{
		config:           cfg,
		logger:           log,
		tokens:           deps.tokens,
		emitter:          emitter,
		health:           deps.health,
		userService:      service.NewUserService(deps.uow, deps.hasher, deps.tokens, log, service.WithEmitter(emitter)),
		taskService:      service.NewTaskService(deps.uow, emitter, log),
		analyticsService: analyticsService,
	}

	log.Info("application initialized",
		slog.Bool("snapshot_cache", deps.snapshots != nil))
	return app
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database pool and the cache client.
func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing cache client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
