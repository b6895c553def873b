// Package tx carries a SQL transaction and the routing intent of the current
// logical operation through context.
//
// The intent is declared once per operation by a Runner (ReadOnly or
// ReadWrite) and every statement inside that operation goes to the same
// pool: the replica for read-only work, the primary otherwise. Stores never
// choose a pool per query.
package tx

import (
	"context"
	"database/sql"
)

// Mode is the routing intent of a logical operation.
type Mode int

const (
	// ReadWrite routes to the primary. It is the zero value so an
	// operation that forgot to declare itself never reads from a lagging replica.
	ReadWrite Mode = iota
	ReadOnly
)

func (m Mode) String() string {
	if m == ReadOnly {
		return "read_only"
	}
	return "read_write"
}

type ctxKey struct{}
type modeKey struct{}

var (
	txKey   = ctxKey{}
	modeCtx = modeKey{}
)

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// WithMode records the routing intent for the operation.
func WithMode(ctx context.Context, mode Mode) context.Context {
	return context.WithValue(ctx, modeCtx, mode)
}

// ModeFrom returns the declared intent, ReadWrite when none was declared.
func ModeFrom(ctx context.Context) Mode {
	if m, ok := ctx.Value(modeCtx).(Mode); ok {
		return m
	}
	return ReadWrite
}

// Runner executes fn as one logical operation with a declared intent.
type Runner interface {
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	ReadWrite(ctx context.Context, fn func(ctx context.Context) error) error
}

// Passthrough is a Runner for stores without transactions (in-memory). It
// only records the intent.
type Passthrough struct{}

func (Passthrough) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(WithMode(ctx, ReadOnly))
}

func (Passthrough) ReadWrite(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(WithMode(ctx, ReadWrite))
}
