// Package store defines the persistence contracts for users, tasks, and the
// audit log, plus the unit-of-work abstraction that scopes every service call
// to a single transaction. Implementations live under internal/platform.
package store
