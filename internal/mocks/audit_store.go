package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// AuditStore implements store.AuditStore over a MemoryDB.
type AuditStore struct {
	db *MemoryDB
}

var _ store.AuditStore = (*AuditStore)(nil)

// WithTx implements store.AuditStore.
func (s *AuditStore) WithTx(*sql.Tx) store.AuditStore { return s }

// Create implements store.AuditStore.
func (s *AuditStore) Create(_ context.Context, entry *domain.AuditEntry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.begin(OpAuditCreate); err != nil {
		return err
	}
	s.db.nextAuditID++
	entry.ID = s.db.nextAuditID
	s.db.audit = append(s.db.audit, *entry)
	return nil
}
