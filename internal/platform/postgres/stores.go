package postgres

import (
	"database/sql"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/store"
)

// NewStores builds the full set of PostgreSQL stores over db.
func NewStores(db *sql.DB, logger *slog.Logger) store.Stores {
	return store.Stores{
		Tasks: NewPostgresTaskStore(db, logger),
		Users: NewPostgresUserStore(db, logger),
		Audit: NewPostgresAuditStore(db, logger),
	}
}

// NewUnitOfWork returns a transactional unit of work over the PostgreSQL stores.
func NewUnitOfWork(db *sql.DB, logger *slog.Logger) *store.SQLUnitOfWork {
	return store.NewSQLUnitOfWork(db, NewStores(db, logger))
}
