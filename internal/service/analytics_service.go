package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/domain/analytics"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// SnapshotCacheKey is the cache key of the dashboard snapshot.
const SnapshotCacheKey = "analytics:snapshot"

// SnapshotCache is the subset of the Redis cache the analytics service uses.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// AnalyticsService produces the admin dashboard snapshot.
type AnalyticsService interface {
	// Snapshot aggregates every task and user. Only admins may call it.
	Snapshot(ctx context.Context, actor domain.Actor) (*analytics.Snapshot, error)
}

// AnalyticsServiceImpl implements AnalyticsService. It also implements
// events.EventHandler so task changes drop the cached snapshot.
type AnalyticsServiceImpl struct {
	uow    store.UnitOfWork
	cache  SnapshotCache
	logger *slog.Logger
	now    func() time.Time
}

var (
	_ AnalyticsService    = (*AnalyticsServiceImpl)(nil)
	_ events.EventHandler = (*AnalyticsServiceImpl)(nil)
)

// NewAnalyticsService creates an AnalyticsService. A nil cache disables caching.
func NewAnalyticsService(
	uow store.UnitOfWork,
	cache SnapshotCache,
	log *slog.Logger,
	opts ...Option,
) *AnalyticsServiceImpl {
	if uow == nil {
		panic("unit of work cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	o := buildOptions(opts)
	return &AnalyticsServiceImpl{
		uow:    uow,
		cache:  cache,
		logger: log.With(slog.String("component", "analytics_service")),
		now:    o.now,
	}
}

// Snapshot implements AnalyticsService. Cache failures degrade to a fresh
// aggregation; they never fail the request.
func (s *AnalyticsServiceImpl) Snapshot(ctx context.Context, actor domain.Actor) (*analytics.Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached analytics.Snapshot
		found, err := s.cache.Get(ctx, SnapshotCacheKey, &cached)
		switch {
		case err != nil:
			log.Warn("analytics cache read failed", slog.String("error", err.Error()))
		case found:
			log.Debug("analytics snapshot served from cache",
				slog.Time("generated_at", cached.GeneratedAt))
			return &cached, nil
		}
	}

	var snap analytics.Snapshot
	err := s.uow.ReadOnly(ctx, func(ctx context.Context, st store.Stores) error {
		tasks, err := st.Tasks.List(ctx, store.TaskFilter{})
		if err != nil {
			return NewServiceError("analytics", "snapshot", "failed to list tasks", err)
		}
		users, err := st.Users.List(ctx)
		if err != nil {
			return NewServiceError("analytics", "snapshot", "failed to list users", err)
		}
		snap = analytics.Aggregate(tasks, users, s.now())
		return nil
	})
	if err != nil {
		log.Error("failed to build analytics snapshot", slog.String("error", err.Error()))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, SnapshotCacheKey, snap); err != nil {
			log.Warn("analytics cache write failed", slog.String("error", err.Error()))
		}
	}

	log.Debug("analytics snapshot built",
		slog.Int("total_tasks", snap.TotalTasks),
		slog.Int("total_users", snap.TotalUsers))
	return &snap, nil
}

// HandleEvent implements events.EventHandler by invalidating the cached snapshot.
func (s *AnalyticsServiceImpl) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, SnapshotCacheKey); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("analytics cache invalidated",
		slog.String("event_type", event.Type),
		slog.Int64("task_id", event.TaskID))
	return nil
}
