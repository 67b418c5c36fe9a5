package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/jmoiron/sqlx"
)

// querier runs dialect-aware queries against a DBTX.
type querier struct {
	db      store.DBTX
	dialect Dialect
}

func newQuerier(db store.DBTX, dialect Dialect) querier {
	if db == nil {
		panic("db cannot be nil")
	}
	return querier{db: db, dialect: dialect}
}

func (q querier) withTx(tx *sql.Tx) querier {
	return newQuerier(tx, q.dialect)
}

// selectAll scans every row of query into dest, a pointer to a slice of
// structs with db tags.
func (q querier) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	rows, err := q.db.QueryContext(ctx, q.dialect.Rebind(query), args...)
	if err != nil {
		return q.dialect.mapErr(err)
	}
	// StructScan closes rows.
	if err := sqlx.StructScan(rows, dest); err != nil {
		return q.dialect.mapErr(err)
	}
	return nil
}

// exec runs a statement with positional arguments.
func (q querier) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := q.db.ExecContext(ctx, q.dialect.Rebind(query), args...)
	if err != nil {
		return nil, q.dialect.mapErr(err)
	}
	return res, nil
}

// namedExec runs a statement with :name placeholders bound from arg's db tags.
func (q querier) namedExec(ctx context.Context, query string, arg any) (sql.Result, error) {
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to bind named query: %w", err)
	}
	return q.exec(ctx, bound, args...)
}

// queryRow runs query and scans the single resulting row into dest.
func (q querier) queryRow(ctx context.Context, query string, args []any, dest ...any) error {
	err := q.db.QueryRowContext(ctx, q.dialect.Rebind(query), args...).Scan(dest...)
	return q.dialect.mapErr(err)
}

// checkRowsAffected returns notFound when an UPDATE or DELETE touched no row.
func checkRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to checkRowsAffected")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// specific replaces a generic duplicate error with the entity-specific one.
// The driver error stays in the chain; the generic sentinel and its text are
// dropped so the message names the entity once.
func specific(err, duplicate error) error {
	if !store.IsDuplicateError(err) {
		return err
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		for _, cause := range multi.Unwrap() {
			if !errors.Is(cause, store.ErrDuplicate) {
				return fmt.Errorf("%w: %w", duplicate, cause)
			}
		}
	}
	if errors.Is(err, duplicate) {
		return err
	}
	return duplicate
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}
