package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names a mutation recorded in the audit log.
type AuditAction string

const (
	AuditTaskCreated AuditAction = "task.create"
	AuditTaskUpdated AuditAction = "task.update"
	AuditTaskDeleted AuditAction = "task.delete"
)

// AuditEntry records who changed which entity and when.
type AuditEntry struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	Action     AuditAction     `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewTaskAudit builds an audit entry for a task mutation. details is
// marshalled to JSON; a value that cannot be marshalled is dropped.
func NewTaskAudit(actor Actor, action AuditAction, taskID int64, details any, now time.Time) AuditEntry {
	entry := AuditEntry{
		UserID:     actor.ID,
		Action:     action,
		EntityType: "task",
		EntityID:   taskID,
		CreatedAt:  now,
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = raw
		}
	}
	return entry
}
