package mocks

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Operation names accepted by MemoryDB.FailOn.
const (
	OpTaskCreate      = "tasks.Create"
	OpTaskGet         = "tasks.GetByID"
	OpTaskList        = "tasks.List"
	OpTaskUpdate      = "tasks.Update"
	OpTaskDelete      = "tasks.Delete"
	OpUserCreate      = "users.Create"
	OpUserGet         = "users.GetByID"
	OpUserGetByEmail  = "users.GetByEmail"
	OpUserList        = "users.List"
	OpUserUpdateLogin = "users.UpdateLastLogin"
	OpAuditCreate     = "audit.Create"
)

// MemoryDB is the shared state behind the in-memory stores.
type MemoryDB struct {
	mu sync.Mutex

	users map[int64]domain.User
	tasks map[int64]domain.Task
	audit []domain.AuditEntry

	nextUserID  int64
	nextTaskID  int64
	nextAuditID int64

	failures map[string]error
	calls    map[string]int
}

type memorySnapshot struct {
	users                                map[int64]domain.User
	tasks                                map[int64]domain.Task
	audit                                []domain.AuditEntry
	nextUserID, nextTaskID, nextAuditID int64
}

// NewMemoryDB returns an empty database.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:    make(map[int64]domain.User),
		tasks:    make(map[int64]domain.Task),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// Stores returns store implementations over db.
func (db *MemoryDB) Stores() store.Stores {
	return store.Stores{
		Tasks: &TaskStore{db: db},
		Users: &UserStore{db: db},
		Audit: &AuditStore{db: db},
	}
}

// FailOn makes every later call to op return err. A nil err clears the failure.
func (db *MemoryDB) FailOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		delete(db.failures, op)
		return
	}
	db.failures[op] = err
}

// Calls reports how many times op was invoked.
func (db *MemoryDB) Calls(op string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.calls[op]
}

// SeedUser stores u directly, assigning an id and filling defaults.
func (db *MemoryDB) SeedUser(u domain.User) domain.User {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.nextUserID++
	u.ID = db.nextUserID
	u.Email = domain.NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if u.HashedPassword == "" {
		u.HashedPassword = "seeded-hash"
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(u.ID) * time.Minute)
		u.UpdatedAt = u.CreatedAt
	}
	u.Password = ""
	db.users[u.ID] = u
	return u
}

// SeedTask stores t directly, assigning an id and filling defaults.
func (db *MemoryDB) SeedTask(t domain.Task) domain.Task {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.nextTaskID++
	t.ID = db.nextTaskID
	if t.Status == "" {
		t.Status = domain.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.Version == 0 {
		t.Version = 1
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(t.ID) * time.Minute)
		t.UpdatedAt = t.CreatedAt
	}
	db.tasks[t.ID] = t
	return t
}

// Task returns the stored task with id.
func (db *MemoryDB) Task(id int64) (domain.Task, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	t, ok := db.tasks[id]
	return t, ok
}

// User returns the stored user with id.
func (db *MemoryDB) User(id int64) (domain.User, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	return u, ok
}

// TaskCount returns the number of stored tasks.
func (db *MemoryDB) TaskCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.tasks)
}

// AuditEntries returns a copy of the audit log in insertion order.
func (db *MemoryDB) AuditEntries() []domain.AuditEntry {
	db.mu.Lock()
	defer db.mu.Unlock()
	return slices.Clone(db.audit)
}

// begin records a call and returns the injected failure for op, if any.
// The caller must hold db.mu.
func (db *MemoryDB) begin(op string) error {
	db.calls[op]++
	return db.failures[op]
}

func (db *MemoryDB) snapshot() memorySnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return memorySnapshot{
		users:       maps.Clone(db.users),
		tasks:       maps.Clone(db.tasks),
		audit:       slices.Clone(db.audit),
		nextUserID:  db.nextUserID,
		nextTaskID:  db.nextTaskID,
		nextAuditID: db.nextAuditID,
	}
}

func (db *MemoryDB) restore(s memorySnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = s.users
	db.tasks = s.tasks
	db.audit = s.audit
	db.nextUserID = s.nextUserID
	db.nextTaskID = s.nextTaskID
	db.nextAuditID = s.nextAuditID
}
