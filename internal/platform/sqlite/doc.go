// Package sqlite adapts the SQL stores in internal/platform/sqlstore to
// SQLite through mattn/go-sqlite3. Write transactions start with
// BEGIN IMMEDIATE, so the database write lock serializes read-modify-write
// sequences without row locks.
package sqlite
