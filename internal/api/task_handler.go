package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// TaskHandler serves task CRUD. The same handler backs the admin routes and
// the user routes; the service applies the access policy to the actor.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService, log *slog.Logger) *TaskHandler {
	if tasks == nil {
		panic("task service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: log.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/admin/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.tasks.CreateTask(r.Context(), actor, req.Fields())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// ListTasks handles GET /api/admin/tasks and GET /api/user/tasks. Admins see
// every task; other users see their assignments.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	views, err := h.tasks.ListTasks(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if views == nil {
		views = []domain.TaskView{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, views)
}

// GetTask handles GET /api/admin/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := handleActorAndPathID(w, r)
	if !ok {
		return
	}

	view, err := h.tasks.GetTask(r.Context(), actor, id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// UpdateTask handles PUT /api/admin/tasks/{id} and PUT /api/user/tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := handleActorAndPathID(w, r)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.tasks.UpdateTask(r.Context(), actor, id, req.Patch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// DeleteTask handles DELETE /api/admin/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := handleActorAndPathID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), actor, id); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}
