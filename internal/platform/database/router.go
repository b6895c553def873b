package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// Router implements tx.Runner over a primary and an optional replica pool.
// Each operation opens one transaction on the pool matching its declared
// intent, so a read-then-write sequence that must observe its own writes
// has to run as ReadWrite.
type Router struct {
	primary *sql.DB
	replica *sql.DB
	timeout time.Duration
}

// NewRouter builds a Router. A nil replica sends read-only work to the primary.
func NewRouter(primary, replica *sql.DB) *Router {
	if replica == nil {
		replica = primary
	}
	return &Router{primary: primary, replica: replica, timeout: defaultTxTimeout}
}

// Primary returns the write pool.
func (r *Router) Primary() *sql.DB { return r.primary }

// Replica returns the read pool.
func (r *Router) Replica() *sql.DB { return r.replica }

// DB picks the pool for the intent recorded in ctx.
func (r *Router) DB(ctx context.Context) *sql.DB {
	if tx.ModeFrom(ctx) == tx.ReadOnly {
		return r.replica
	}
	return r.primary
}

func (r *Router) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.run(ctx, tx.ReadOnly, fn)
}

func (r *Router) ReadWrite(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.run(ctx, tx.ReadWrite, fn)
}

func (r *Router) run(ctx context.Context, mode tx.Mode, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	// nested operations join the outer transaction
	if _, ok := tx.From(ctx); ok {
		return fn(ctx)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	ctx = tx.WithMode(ctx, mode)
	db := r.DB(ctx)
	sqlTx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: mode == tx.ReadOnly})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "begin transaction")
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "commit transaction")
	}
	return nil
}

// Ping checks the primary and, when distinct, the replica.
func (r *Router) Ping(ctx context.Context) error {
	if err := r.primary.PingContext(ctx); err != nil {
		return err
	}
	if r.replica != r.primary {
		return r.replica.PingContext(ctx)
	}
	return nil
}

// Close closes both pools.
func (r *Router) Close() error {
	err := r.primary.Close()
	if r.replica != r.primary {
		err = errors.Join(err, r.replica.Close())
	}
	return err
}
