package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAnalytics(t *testing.T) (*mocks.MemoryDB, domain.Actor, domain.Actor) {
	t.Helper()
	db := mocks.NewMemoryDB()
	admin := db.SeedUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})
	worker := db.SeedUser(domain.User{Name: "Worker", Email: "worker@example.com"})

	past := "2024-01-01"
	db.SeedTask(domain.Task{Title: "late", CreatedBy: admin.ID, AssignedTo: &worker.ID, DueDate: &past, Priority: domain.PriorityHigh})
	db.SeedTask(domain.Task{Title: "late but done", CreatedBy: admin.ID, AssignedTo: &worker.ID, DueDate: &past, Status: domain.StatusDone})
	db.SeedTask(domain.Task{Title: "open", CreatedBy: admin.ID, Status: domain.StatusInProgress, Priority: domain.PriorityLow})
	return db, admin.Actor(), worker.Actor()
}

func TestAnalyticsSnapshot(t *testing.T) {
	db, admin, worker := seedAnalytics(t)
	uow := mocks.NewUnitOfWork(db)
	svc := NewAnalyticsService(uow, nil, nil, WithClock(func() time.Time { return testNow }))

	snap, err := svc.Snapshot(context.Background(), admin)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.TotalTasks)
	assert.Equal(t, 2, snap.TotalUsers)
	assert.Equal(t, 1, snap.CompletedCount)
	assert.Equal(t, 1, snap.OverdueCount)
	assert.Equal(t, "late", snap.Overdue[0].Title)
	assert.Equal(t, snap.TotalTasks, len(snap.Todo)+len(snap.InProgress)+len(snap.Completed))
	assert.Len(t, snap.HighPriority, 1)
	assert.Len(t, snap.LowPriority, 1)
	assert.Empty(t, snap.MediumPriority, "done tasks are excluded from priority lists")
	assert.Equal(t, testNow, snap.GeneratedAt)
	assert.Equal(t, int32(1), uow.ReadOnlys.Load())

	_, err = svc.Snapshot(context.Background(), worker)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Snapshot(context.Background(), domain.Actor{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAnalyticsSnapshotCaching(t *testing.T) {
	db, admin, _ := seedAnalytics(t)
	uow := mocks.NewUnitOfWork(db)
	cache := mocks.NewMemoryCache()
	svc := NewAnalyticsService(uow, cache, nil, WithClock(func() time.Time { return testNow }))
	ctx := context.Background()

	first, err := svc.Snapshot(ctx, admin)
	require.NoError(t, err)
	assert.True(t, cache.Has(SnapshotCacheKey))

	db.SeedTask(domain.Task{Title: "new", CreatedBy: admin.ID})

	cached, err := svc.Snapshot(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, first.TotalTasks, cached.TotalTasks)
	assert.Equal(t, int32(1), uow.ReadOnlys.Load(), "second call is served from cache")

	event, err := events.NewTaskEvent(events.TaskCreated, 4, admin.ID, nil, testNow)
	require.NoError(t, err)
	require.NoError(t, svc.HandleEvent(ctx, event))
	assert.False(t, cache.Has(SnapshotCacheKey))

	fresh, err := svc.Snapshot(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.TotalTasks)
}

func TestAnalyticsSnapshotCacheFailuresDegrade(t *testing.T) {
	db, admin, _ := seedAnalytics(t)
	cache := mocks.NewMemoryCache()
	cache.GetErr = errors.New("redis down")
	cache.SetErr = errors.New("redis down")
	svc := NewAnalyticsService(mocks.NewUnitOfWork(db), cache, nil)

	snap, err := svc.Snapshot(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.TotalTasks)
}

func TestAnalyticsSnapshotStoreFailure(t *testing.T) {
	db, admin, _ := seedAnalytics(t)
	db.FailOn(mocks.OpUserList, errors.New("connection reset"))
	svc := NewAnalyticsService(mocks.NewUnitOfWork(db), nil, nil)

	_, err := svc.Snapshot(context.Background(), admin)
	var serr *ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "analytics", serr.Service)
}

func TestTaskEventsInvalidateSnapshot(t *testing.T) {
	db, admin, _ := seedAnalytics(t)
	uow := mocks.NewUnitOfWork(db)
	cache := mocks.NewMemoryCache()

	analyticsSvc := NewAnalyticsService(uow, cache, nil)
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(analyticsSvc)
	taskSvc := NewTaskService(uow, emitter, nil)
	ctx := context.Background()

	_, err := analyticsSvc.Snapshot(ctx, admin)
	require.NoError(t, err)
	require.True(t, cache.Has(SnapshotCacheKey))

	_, err = taskSvc.CreateTask(ctx, admin, domain.TaskFields{Title: strPtr("fresh")})
	require.NoError(t, err)
	assert.False(t, cache.Has(SnapshotCacheKey))

	snap, err := analyticsSvc.Snapshot(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.TotalTasks)
}
