//go:build integration

// Package testdb provides PostgreSQL helpers for integration tests. Each test
// runs in a transaction that is rolled back when it finishes.
package testdb
