package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// UnitOfWork runs fn inside a transaction. fn's error (or panic) rolls the
// transaction back; otherwise it is committed.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork scopes a backlog mutation and its follow-up writes
// (pomodoros, tag rows) to one transaction.
type SQLiteUnitOfWork struct {
	db     *sql.DB
	logger *slog.Logger
}

type UoWOption func(*SQLiteUnitOfWork)

// WithTxLogger logs rollbacks at debug level.
func WithTxLogger(logger *slog.Logger) UoWOption {
	return func(u *SQLiteUnitOfWork) {
		if logger != nil {
			u.logger = logger
		}
	}
}

func NewSQLiteUnitOfWork(db *sql.DB, opts ...UoWOption) *SQLiteUnitOfWork {
	u := &SQLiteUnitOfWork{db: db, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		p := recover()
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
		u.logger.DebugContext(ctx, "transaction rolled back", "error", err, "panic", p != nil)
		if p != nil {
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
