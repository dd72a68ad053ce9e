package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// PostgresAuditStore implements store.AuditStore on the audit_logs table.
type PostgresAuditStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuditStore creates an audit store over db.
func NewPostgresAuditStore(db store.DBTX, logger *slog.Logger) *PostgresAuditStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAuditStore{
		db:     db,
		logger: logger.With(slog.String("component", "audit_store")),
	}
}

var _ store.AuditStore = (*PostgresAuditStore)(nil)

// WithTx implements store.AuditStore.
func (s *PostgresAuditStore) WithTx(tx *sql.Tx) store.AuditStore {
	return &PostgresAuditStore{db: tx, logger: s.logger}
}

// Create implements store.AuditStore.
func (s *PostgresAuditStore) Create(ctx context.Context, entry *domain.AuditEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var details any
	if len(entry.Details) > 0 {
		details = string(entry.Details)
	}

	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		entry.UserID,
		string(entry.Action),
		entry.EntityType,
		entry.EntityID,
		details,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		log.Error("failed to write audit entry",
			slog.String("error", err.Error()),
			slog.String("action", string(entry.Action)),
			slog.Int64("entity_id", entry.EntityID))
		return store.NewStoreError("audit", "create", "insert failed", MapError(err))
	}
	return nil
}
