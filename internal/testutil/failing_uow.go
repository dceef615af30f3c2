package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/tomo/internal/db"
)

// FailOnNthExecUoW runs transactions like db.SQLiteUnitOfWork but makes the
// FailOn-th write inside each one return Err. Writes are counted from 1;
// reads pass through. Execs records how many writes the last transaction
// attempted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	Execs int
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	counting := &countingTx{failOn: u.FailOn, err: u.Err}
	defer func() { u.Execs = counting.n }()

	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		counting.DBTX = tx
		return fn(ctx, counting)
	})
}

type countingTx struct {
	db.DBTX
	n      int
	failOn int
	err    error
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.n++
	if c.n == c.failOn {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
