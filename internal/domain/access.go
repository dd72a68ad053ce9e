package domain

import "fmt"

// Operation names an action on tasks that the access policy rules on.
type Operation string

const (
	OpCreate  Operation = "create"
	OpReadAll Operation = "read-all"
	OpReadOne Operation = "read-one"
	OpUpdate  Operation = "update"
	OpDelete  Operation = "delete"
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Authorize decides whether actor may perform op on task. It returns nil to
// allow, or an error wrapping ErrForbidden (or ErrUnauthenticated for a zero
// actor). task may be nil for create and read-all.
//
// Ownership for read-one and update is current assignment, not authorship.
// Callers must establish that the task exists before asking.
func Authorize(actor Actor, task *Task, op Operation) error {
	if actor.ID == 0 || !actor.Role.Valid() {
		return ErrUnauthenticated
	}

	switch op {
	case OpCreate, OpReadAll:
		return nil
	case OpReadOne, OpUpdate:
		if actor.IsAdmin() || isAssignee(actor, task) {
			return nil
		}
	case OpDelete:
		if actor.IsAdmin() {
			return nil
		}
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrForbidden, op)
	}

	if task != nil {
		return fmt.Errorf("%w: %s on task %d", ErrForbidden, op, task.ID)
	}
	return fmt.Errorf("%w: %s", ErrForbidden, op)
}

// VisibleTo returns the assignee filter that read-all applies for actor: nil
// for admins, the actor's own id for everyone else.
func VisibleTo(actor Actor) *int64 {
	if actor.IsAdmin() {
		return nil
	}
	id := actor.ID
	return &id
}

func isAssignee(actor Actor, task *Task) bool {
	return task != nil && task.AssignedTo != nil && *task.AssignedTo == actor.ID
}

// RequireAdmin allows only authenticated admins. It guards operations that
// are not tied to a single task, such as the analytics snapshot and the user list.
func RequireAdmin(actor Actor) error {
	if actor.ID == 0 || !actor.Role.Valid() {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}
