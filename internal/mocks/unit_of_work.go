package mocks

import (
	"context"
	"sync/atomic"

	"github.com/phrazzld/tasktrack-api/internal/store"
)

// UnitOfWork implements store.UnitOfWork over a MemoryDB. Work that returns an
// error or panics is rolled back by restoring the state captured before it ran.
type UnitOfWork struct {
	DB *MemoryDB

	Commits   atomic.Int32
	Rollbacks atomic.Int32
	ReadOnlys atomic.Int32
}

var _ store.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork returns a unit of work over db.
func NewUnitOfWork(db *MemoryDB) *UnitOfWork {
	return &UnitOfWork{DB: db}
}

// Do implements store.UnitOfWork.
func (u *UnitOfWork) Do(ctx context.Context, fn store.WorkFn) (err error) {
	snap := u.DB.snapshot()
	defer func() {
		if p := recover(); p != nil {
			u.DB.restore(snap)
			u.Rollbacks.Add(1)
			panic(p)
		}
		if err != nil {
			u.DB.restore(snap)
			u.Rollbacks.Add(1)
			return
		}
		u.Commits.Add(1)
	}()
	return fn(ctx, u.DB.Stores())
}

// ReadOnly implements store.UnitOfWork. Any writes made by fn are discarded.
func (u *UnitOfWork) ReadOnly(ctx context.Context, fn store.WorkFn) error {
	snap := u.DB.snapshot()
	defer u.DB.restore(snap)
	u.ReadOnlys.Add(1)
	return fn(ctx, u.DB.Stores())
}
