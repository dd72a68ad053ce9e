package store

import (
	"context"
	"database/sql"
)

// Stores groups the stores a single unit of work may touch. Within a unit of
// work every store shares one transaction.
type Stores struct {
	Tasks TaskStore
	Users UserStore
	Audit AuditStore
}

// WithTx binds every store to tx.
func (s Stores) WithTx(tx *sql.Tx) Stores {
	return Stores{
		Tasks: s.Tasks.WithTx(tx),
		Users: s.Users.WithTx(tx),
		Audit: s.Audit.WithTx(tx),
	}
}

// WorkFn is the body of a unit of work.
type WorkFn func(ctx context.Context, s Stores) error

// UnitOfWork scopes a group of store calls to one atomic transaction that is
// released on every exit path.
type UnitOfWork interface {
	// Do runs fn in a read-write transaction.
	Do(ctx context.Context, fn WorkFn) error

	// ReadOnly runs fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn WorkFn) error
}

// SQLUnitOfWork implements UnitOfWork over a database/sql connection pool.
type SQLUnitOfWork struct {
	db     *sql.DB
	stores Stores
}

var _ UnitOfWork = (*SQLUnitOfWork)(nil)

// NewSQLUnitOfWork returns a UnitOfWork that rebinds stores to a fresh
// transaction on db for every call.
func NewSQLUnitOfWork(db *sql.DB, stores Stores) *SQLUnitOfWork {
	if db == nil {
		panic("db cannot be nil")
	}
	if stores.Tasks == nil || stores.Users == nil || stores.Audit == nil {
		panic("all stores must be provided")
	}
	return &SQLUnitOfWork{db: db, stores: stores}
}

// Do implements UnitOfWork.
func (u *SQLUnitOfWork) Do(ctx context.Context, fn WorkFn) error {
	// The base stores are never used directly; each call gets copies bound to
	// its own transaction, so concurrent units of work share nothing.
	return RunInTransaction(ctx, u.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, u.stores.WithTx(tx))
	})
}

// ReadOnly implements UnitOfWork. Analytics reads tasks and users in one
// read-only transaction so both lists come from the same snapshot.
func (u *SQLUnitOfWork) ReadOnly(ctx context.Context, fn WorkFn) error {
	opts := &sql.TxOptions{ReadOnly: true}
	return RunInTransactionWithOptions(ctx, u.db, opts, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, u.stores.WithTx(tx))
	})
}
