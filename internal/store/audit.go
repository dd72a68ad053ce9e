package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// AuditStore appends to the audit log. Entries are never updated or removed.
type AuditStore interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	WithTx(tx *sql.Tx) AuditStore
}
