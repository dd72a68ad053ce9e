// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver, and owns the embedded goose migrations.
package postgres
