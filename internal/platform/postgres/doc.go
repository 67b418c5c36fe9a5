// Package postgres adapts the SQL stores in internal/platform/sqlstore to
// PostgreSQL through the pgx driver. It owns the PostgreSQL error mapping,
// the row locking clause, connection setup and the embedded schema
// migrations.
package postgres
