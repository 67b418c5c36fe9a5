package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/sethvargo/go-retry"
)

// TxFn is a function that runs inside a transaction. Stores obtained through
// WithTx(tx) take part in the transaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes fn in a transaction on db. The transaction is
// committed when fn returns nil and rolled back when fn returns an error or
// panics. A panic is re-raised after the rollback.
func RunInTransaction(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", rbErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic", slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, err)
		}
		log.Debug("rolled back transaction due to error", slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, err)
	}

	return nil
}

// Transactor draws transaction boundaries for services. Every call to RunInTx
// is one unit of work: all stores bound to the tx commit or roll back
// together.
type Transactor interface {
	RunInTx(ctx context.Context, fn TxFn) error
}

// SQLTransactor runs units of work on a *sql.DB and re-runs them when they
// fail with a serialization conflict.
type SQLTransactor struct {
	db         *sql.DB
	opts       *sql.TxOptions
	maxRetries uint64
	baseDelay  time.Duration
	classify   func(error) error
	logger     *slog.Logger
}

// TransactorOption configures a SQLTransactor.
type TransactorOption func(*SQLTransactor)

// WithTxOptions sets the options passed to BeginTx.
func WithTxOptions(opts *sql.TxOptions) TransactorOption {
	return func(t *SQLTransactor) { t.opts = opts }
}

// WithRetry sets how many times a conflicting unit of work is re-run and the
// base delay of the exponential backoff between attempts.
func WithRetry(maxRetries uint64, baseDelay time.Duration) TransactorOption {
	return func(t *SQLTransactor) {
		t.maxRetries = maxRetries
		t.baseDelay = baseDelay
	}
}

// WithErrorMapper installs the driver's error mapping. Begin and commit
// errors do not pass through a store, so the transactor maps them itself to
// recognise serialization conflicts.
func WithErrorMapper(mapErr func(error) error) TransactorOption {
	return func(t *SQLTransactor) { t.classify = mapErr }
}

// WithTransactorLogger sets the fallback logger.
func WithTransactorLogger(logger *slog.Logger) TransactorOption {
	return func(t *SQLTransactor) { t.logger = logger }
}

// NewSQLTransactor creates a SQLTransactor with three retries and a 10ms base
// delay unless overridden.
func NewSQLTransactor(db *sql.DB, opts ...TransactorOption) *SQLTransactor {
	if db == nil {
		panic("db cannot be nil")
	}

	t := &SQLTransactor{
		db:         db,
		maxRetries: 3,
		baseDelay:  10 * time.Millisecond,
		classify:   func(err error) error { return err },
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.baseDelay <= 0 {
		t.baseDelay = time.Millisecond
	}
	t.logger = t.logger.With(slog.String("component", "transactor"))
	return t
}

// DB returns the underlying database handle.
func (t *SQLTransactor) DB() *sql.DB {
	return t.db
}

// RunInTx implements Transactor.
func (t *SQLTransactor) RunInTx(ctx context.Context, fn TxFn) error {
	log := logger.FromContextOrDefault(ctx, t.logger)

	backoff := retry.WithMaxRetries(t.maxRetries,
		retry.WithJitterPercent(20, retry.NewExponential(t.baseDelay)))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := t.classify(RunInTransaction(ctx, t.db, t.opts, fn))
		if err != nil && IsRetryable(err) {
			log.Debug("transaction conflict, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		return err
	})

	if err != nil && IsRetryable(err) {
		log.Warn("transaction conflict persisted after retries",
			slog.Int("attempts", attempt),
			slog.String("error", err.Error()))
	}
	return err
}

var _ Transactor = (*SQLTransactor)(nil)

// MarkRetryable wraps err with ErrSerialization unless it already matches.
// Dialect error mappers use it for driver codes that signal a lost race.
func MarkRetryable(err error) error {
	if err == nil || errors.Is(err, ErrSerialization) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSerialization, err)
}

// IsMapped reports whether err already carries one of the store sentinels,
// which lets error mappers run more than once over the same error.
func IsMapped(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrInvalidEntity) ||
		errors.Is(err, ErrSerialization)
}
