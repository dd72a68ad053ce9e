package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// TaskService defines the task lifecycle operations.
type TaskService interface {
	// CreateTask validates fields, persists a new task owned by actor and
	// returns it enriched.
	CreateTask(ctx context.Context, actor domain.Actor, fields domain.TaskFields) (*domain.TaskView, error)

	// GetTask returns one task if actor may read it.
	GetTask(ctx context.Context, actor domain.Actor, id int64) (*domain.TaskView, error)

	// ListTasks returns every task actor can see, newest first.
	ListTasks(ctx context.Context, actor domain.Actor) ([]domain.TaskView, error)

	// UpdateTask applies a partial update and returns the refreshed task.
	UpdateTask(ctx context.Context, actor domain.Actor, id int64, patch domain.TaskPatch) (*domain.TaskView, error)

	// DeleteTask removes a task. Only admins may delete.
	DeleteTask(ctx context.Context, actor domain.Actor, id int64) error
}

// Option customizes a service.
type Option func(*options)

type options struct {
	now     func() time.Time
	emitter events.EventEmitter
}

// WithClock replaces time.Now as the source of timestamps and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithEmitter publishes the service's events to emitter. Without it events
// are discarded.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(o *options) {
		if emitter != nil {
			o.emitter = emitter
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:     func() time.Time { return time.Now().UTC() },
		emitter: events.NoopEmitter{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	uow     store.UnitOfWork
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskService. A nil emitter discards events.
func NewTaskService(
	uow store.UnitOfWork,
	emitter events.EventEmitter,
	log *slog.Logger,
	opts ...Option,
) *TaskServiceImpl {
	if uow == nil {
		panic("unit of work cannot be nil")
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	if log == nil {
		log = slog.Default()
	}
	o := buildOptions(opts)
	return &TaskServiceImpl{
		uow:     uow,
		emitter: emitter,
		logger:  log.With(slog.String("component", "task_service")),
		now:     o.now,
	}
}

// CreateTask implements TaskService.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	actor domain.Actor,
	fields domain.TaskFields,
) (*domain.TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.Authorize(actor, nil, domain.OpCreate); err != nil {
		return nil, err
	}

	now := s.now()
	task, err := domain.NewTask(fields, actor.ID, now)
	if err != nil {
		log.Debug("rejected task fields", slog.String("error", err.Error()))
		return nil, err
	}

	var view domain.TaskView
	err = s.uow.Do(ctx, func(ctx context.Context, st store.Stores) error {
		var assignee *domain.User
		if task.AssignedTo != nil {
			assignee, err = s.lookupAssignee(ctx, st, *task.AssignedTo)
			if err != nil {
				return err
			}
		}

		if err := st.Tasks.Create(ctx, task); err != nil {
			return taskStoreError("create", 0, err)
		}

		entry := domain.NewTaskAudit(actor, domain.AuditTaskCreated, task.ID, auditSnapshot(*task), now)
		if err := st.Audit.Create(ctx, &entry); err != nil {
			return NewServiceError("task", "create", "failed to write audit entry", err)
		}

		view = domain.NewTaskView(*task, userName(assignee), now)
		return nil
	})
	if err != nil {
		s.logFailure(log, "create", 0, err)
		return nil, err
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("actor_id", actor.ID))
	s.emit(ctx, events.TaskCreated, task.ID, actor.ID, nil)
	return &view, nil
}

// GetTask implements TaskService. A missing task is reported before any
// authorization decision.
func (s *TaskServiceImpl) GetTask(ctx context.Context, actor domain.Actor, id int64) (*domain.TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var view domain.TaskView
	err := s.uow.ReadOnly(ctx, func(ctx context.Context, st store.Stores) error {
		task, err := st.Tasks.GetByID(ctx, id)
		if err != nil {
			return taskStoreError("get", id, err)
		}
		if err := domain.Authorize(actor, task, domain.OpReadOne); err != nil {
			return err
		}
		view, err = s.enrich(ctx, st, *task, s.now())
		return err
	})
	if err != nil {
		s.logFailure(log, "get", id, err)
		return nil, err
	}
	return &view, nil
}

// ListTasks implements TaskService. Admins see every task; everyone else sees
// the tasks currently assigned to them.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, actor domain.Actor) ([]domain.TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.Authorize(actor, nil, domain.OpReadAll); err != nil {
		return nil, err
	}

	var views []domain.TaskView
	err := s.uow.ReadOnly(ctx, func(ctx context.Context, st store.Stores) error {
		tasks, err := st.Tasks.List(ctx, store.TaskFilter{AssignedTo: domain.VisibleTo(actor)})
		if err != nil {
			return taskStoreError("list", 0, err)
		}

		names, err := s.assigneeNames(ctx, st, tasks)
		if err != nil {
			return err
		}

		now := s.now()
		views = make([]domain.TaskView, 0, len(tasks))
		for _, t := range tasks {
			views = append(views, domain.NewTaskView(t, assigneeName(names, t.AssignedTo), now))
		}
		return nil
	})
	if err != nil {
		s.logFailure(log, "list", 0, err)
		return nil, err
	}

	log.Debug("listed tasks",
		slog.Int64("actor_id", actor.ID),
		slog.Int("count", len(views)))
	return views, nil
}

// UpdateTask implements TaskService. The task is loaded, authorized and
// validated before anything is written; a patch that changes nothing is not
// persisted and leaves updated_at untouched.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	patch domain.TaskPatch,
) (*domain.TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		view    domain.TaskView
		changed bool
	)
	err := s.uow.Do(ctx, func(ctx context.Context, st store.Stores) error {
		current, err := st.Tasks.GetByID(ctx, id)
		if err != nil {
			return taskStoreError("update", id, err)
		}
		if err := domain.Authorize(actor, current, domain.OpUpdate); err != nil {
			return err
		}

		expected := 0
		if patch.ExpectedVersion != nil {
			expected = *patch.ExpectedVersion
			if expected != current.Version {
				return taskStoreError("update", id, store.ErrVersionConflict)
			}
		}

		now := s.now()
		next, didChange, err := current.Apply(patch, now)
		if err != nil {
			return err
		}
		changed = didChange
		if !changed {
			view, err = s.enrich(ctx, st, *current, now)
			return err
		}

		if next.AssignedTo != nil && !sameAssignee(current.AssignedTo, next.AssignedTo) {
			if _, err := s.lookupAssignee(ctx, st, *next.AssignedTo); err != nil {
				return err
			}
		}

		if err := st.Tasks.Update(ctx, &next, expected); err != nil {
			return taskStoreError("update", id, err)
		}

		entry := domain.NewTaskAudit(actor, domain.AuditTaskUpdated, id, changedFields(*current, next), now)
		if err := st.Audit.Create(ctx, &entry); err != nil {
			return NewServiceError("task", "update", "failed to write audit entry", err)
		}

		view, err = s.enrich(ctx, st, next, now)
		return err
	})
	if err != nil {
		s.logFailure(log, "update", id, err)
		return nil, err
	}

	if changed {
		log.Info("task updated",
			slog.Int64("task_id", id),
			slog.Int64("actor_id", actor.ID),
			slog.Int("version", view.Version))
		s.emit(ctx, events.TaskUpdated, id, actor.ID, map[string]any{"status": view.Status})
	}
	return &view, nil
}

// DeleteTask implements TaskService. A missing task is reported as not found
// even to non-admins.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, actor domain.Actor, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.uow.Do(ctx, func(ctx context.Context, st store.Stores) error {
		task, err := st.Tasks.GetByID(ctx, id)
		if err != nil {
			return taskStoreError("delete", id, err)
		}
		if err := domain.Authorize(actor, task, domain.OpDelete); err != nil {
			return err
		}

		if err := st.Tasks.Delete(ctx, id); err != nil {
			return taskStoreError("delete", id, err)
		}

		entry := domain.NewTaskAudit(actor, domain.AuditTaskDeleted, id, auditSnapshot(*task), s.now())
		if err := st.Audit.Create(ctx, &entry); err != nil {
			return NewServiceError("task", "delete", "failed to write audit entry", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(log, "delete", id, err)
		return err
	}

	log.Info("task deleted",
		slog.Int64("task_id", id),
		slog.Int64("actor_id", actor.ID))
	s.emit(ctx, events.TaskDeleted, id, actor.ID, nil)
	return nil
}

func (s *TaskServiceImpl) lookupAssignee(ctx context.Context, st store.Stores, id int64) (*domain.User, error) {
	u, err := st.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, unknownAssignee(id, err)
		}
		return nil, NewServiceError("task", "lookup_assignee", "failed to load user", err)
	}
	return u, nil
}

// enrich joins the assignee's name onto t. An assignee that no longer exists
// yields a nil name rather than an error.
func (s *TaskServiceImpl) enrich(ctx context.Context, st store.Stores, t domain.Task, now time.Time) (domain.TaskView, error) {
	if t.AssignedTo == nil {
		return domain.NewTaskView(t, nil, now), nil
	}
	u, err := st.Users.GetByID(ctx, *t.AssignedTo)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.TaskView{}, NewServiceError("task", "enrich", "failed to load assignee", err)
	}
	return domain.NewTaskView(t, userName(u), now), nil
}

// assigneeNames loads display names for every assignee referenced by tasks.
func (s *TaskServiceImpl) assigneeNames(ctx context.Context, st store.Stores, tasks []domain.Task) (map[int64]string, error) {
	names := make(map[int64]string)
	for _, t := range tasks {
		if t.AssignedTo == nil {
			continue
		}
		if _, seen := names[*t.AssignedTo]; seen {
			continue
		}
		u, err := st.Users.GetByID(ctx, *t.AssignedTo)
		switch {
		case err == nil:
			names[u.ID] = u.Name
		case errors.Is(err, store.ErrNotFound):
			names[*t.AssignedTo] = ""
		default:
			return nil, NewServiceError("task", "list", "failed to load assignees", err)
		}
	}
	return names, nil
}

func (s *TaskServiceImpl) emit(ctx context.Context, eventType string, taskID, actorID int64, payload any) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewTaskEvent(eventType, taskID, actorID, payload, s.now())
	if err != nil {
		log.Error("failed to build task event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType))
		return
	}
	// The change is already committed; a failing handler is logged, not returned.
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("task event handler failed",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType),
			slog.Int64("task_id", taskID))
	}
}

func (s *TaskServiceImpl) logFailure(log *slog.Logger, op string, taskID int64, err error) {
	attrs := []any{
		slog.String("operation", op),
		slog.String("error", err.Error()),
	}
	if taskID != 0 {
		attrs = append(attrs, slog.Int64("task_id", taskID))
	}
	if isDomainError(err) {
		log.Debug("task operation rejected", attrs...)
		return
	}
	log.Error("task operation failed", attrs...)
}

func userName(u *domain.User) *string {
	if u == nil {
		return nil
	}
	name := u.Name
	return &name
}

func assigneeName(names map[int64]string, id *int64) *string {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok || name == "" {
		return nil
	}
	return &name
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// auditSnapshot is the subset of a task recorded on create and delete.
func auditSnapshot(t domain.Task) map[string]any {
	return map[string]any{
		"title":       t.Title,
		"status":      t.Status,
		"priority":    t.Priority,
		"assigned_to": t.AssignedTo,
	}
}

// changedFields lists before/after values for the fields an update touched.
func changedFields(before, after domain.Task) map[string]any {
	out := make(map[string]any)
	diff := func(name string, from, to any) {
		out[name] = map[string]any{"from": from, "to": to}
	}
	if before.Title != after.Title {
		diff("title", before.Title, after.Title)
	}
	if !equalStringPtr(before.Description, after.Description) {
		diff("description", before.Description, after.Description)
	}
	if before.Status != after.Status {
		diff("status", before.Status, after.Status)
	}
	if before.Priority != after.Priority {
		diff("priority", before.Priority, after.Priority)
	}
	if !equalStringPtr(before.DueDate, after.DueDate) {
		diff("due_date", before.DueDate, after.DueDate)
	}
	if !sameAssignee(before.AssignedTo, after.AssignedTo) {
		diff("assigned_to", before.AssignedTo, after.AssignedTo)
	}
	return out
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
