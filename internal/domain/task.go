package domain

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a task. Any state may move to any other.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// ParseStatus validates s against the closed status set.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		names := make([]string, len(Statuses))
		for i, v := range Statuses {
			names[i] = string(v)
		}
		return "", newEnumError("status", s, names)
	}
	return status, nil
}

// ParsePriority validates p against the closed priority set.
func ParsePriority(p string) (Priority, error) {
	priority := Priority(p)
	if !priority.Valid() {
		names := make([]string, len(Priorities))
		for i, v := range Priorities {
			names[i] = string(v)
		}
		return "", newEnumError("priority", p, names)
	}
	return priority, nil
}

// Task is a unit of work. DueDate is kept exactly as supplied; whether the
// task is overdue is derived on read by IsOverdue.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *string    `json:"due_date"`
	AssignedTo  *int64     `json:"assigned_to"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Version     int        `json:"version"`
}

// TaskFields carries caller-supplied task attributes. A nil field means
// "not supplied"; there is no way to clear a previously set value.
type TaskFields struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	AssignedTo  *int64
}

// TaskPatch is a partial update. ExpectedVersion, when set, must match the
// stored version or the update fails with ErrConflict.
type TaskPatch struct {
	TaskFields
	ExpectedVersion *int
}

// NewTask builds a task owned by creatorID, defaulting status to todo and
// priority to medium. Whether AssignedTo refers to a real user is checked by
// the caller.
func NewTask(fields TaskFields, creatorID int64, now time.Time) (*Task, error) {
	if fields.Title == nil {
		return nil, NewValidationError("title", "is required", nil)
	}

	t := &Task{
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	changes, err := fields.resolve()
	if err != nil {
		return nil, err
	}
	// A task created as done has no transition, so CompletedAt stays nil.
	changes.applyTo(t)
	return t, nil
}

// Apply returns a copy of t with the patch applied and whether anything
// changed. Every supplied field is validated before any is applied, so a
// failing patch leaves no partial mutation. Moving into done from any other
// status stamps CompletedAt; leaving done never clears it.
func (t Task) Apply(p TaskPatch, now time.Time) (Task, bool, error) {
	changes, err := p.resolve()
	if err != nil {
		return t, false, err
	}

	next := t
	changes.applyTo(&next)
	if !next.differsFrom(t) {
		return t, false, nil
	}

	if next.Status == StatusDone && t.Status != StatusDone {
		completed := now
		next.CompletedAt = &completed
	}
	next.UpdatedAt = now
	next.Version = t.Version + 1
	return next, true, nil
}

// resolvedFields holds validated, typed values ready to apply.
type resolvedFields struct {
	title       *string
	description *string
	status      *Status
	priority    *Priority
	dueDate     *string
	assignedTo  *int64
}

func (f TaskFields) resolve() (resolvedFields, error) {
	var r resolvedFields

	if f.Title != nil {
		title := strings.TrimSpace(*f.Title)
		if title == "" {
			return r, NewValidationError("title", "cannot be empty", nil)
		}
		r.title = &title
	}
	if f.Status != nil {
		s, err := ParseStatus(*f.Status)
		if err != nil {
			return r, err
		}
		r.status = &s
	}
	if f.Priority != nil {
		p, err := ParsePriority(*f.Priority)
		if err != nil {
			return r, err
		}
		r.priority = &p
	}
	if f.DueDate != nil {
		if _, ok := ParseDueDateStrict(*f.DueDate); !ok {
			return r, NewValidationError("due_date", "must be a date (YYYY-MM-DD) or timestamp", nil)
		}
		due := *f.DueDate
		r.dueDate = &due
	}
	if f.AssignedTo != nil {
		if *f.AssignedTo <= 0 {
			return r, NewValidationError("assigned_to", "must be a positive user id", nil)
		}
		id := *f.AssignedTo
		r.assignedTo = &id
	}
	if f.Description != nil {
		desc := *f.Description
		r.description = &desc
	}
	return r, nil
}

func (r resolvedFields) applyTo(t *Task) {
	if r.title != nil {
		t.Title = *r.title
	}
	if r.description != nil {
		t.Description = r.description
	}
	if r.status != nil {
		t.Status = *r.status
	}
	if r.priority != nil {
		t.Priority = *r.priority
	}
	if r.dueDate != nil {
		t.DueDate = r.dueDate
	}
	if r.assignedTo != nil {
		t.AssignedTo = r.assignedTo
	}
}

func (t Task) differsFrom(o Task) bool {
	return t.Title != o.Title ||
		!equalPtr(t.Description, o.Description) ||
		t.Status != o.Status ||
		t.Priority != o.Priority ||
		!equalPtr(t.DueDate, o.DueDate) ||
		!equalPtr(t.AssignedTo, o.AssignedTo)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// TaskView is a task enriched at read time with the assignee's display name
// and the derived overdue flag. Neither is persisted.
type TaskView struct {
	Task
	AssignedUserName *string `json:"assigned_user_name"`
	IsOverdue        bool    `json:"is_overdue"`
}

// NewTaskView enriches t for presentation at time now.
func NewTaskView(t Task, assigneeName *string, now time.Time) TaskView {
	return TaskView{
		Task:             t,
		AssignedUserName: assigneeName,
		IsOverdue:        IsOverdue(t, now),
	}
}
