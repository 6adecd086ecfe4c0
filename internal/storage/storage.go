// Package storage provides the scoped atomic unit of work the payment and
// sharing flows run inside, plus the querier plumbing that lets store
// implementations participate in an open transaction.
package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx operations store implementations need.
// Both *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UnitOfWork groups mutations so they become visible together or not at all.
// fn runs inside the unit; any error (including context cancellation) rolls
// the whole unit back with no partial effect.
type UnitOfWork interface {
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error
}

type querierKey struct{}

// WithQuerier stashes a transactional querier in the context so stores
// invoked inside a unit of work operate on the open transaction.
func WithQuerier(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, querierKey{}, q)
}

// QuerierFrom returns the transactional querier carried by ctx, or fallback
// when no unit of work is open.
func QuerierFrom(ctx context.Context, fallback Querier) Querier {
	if q, ok := ctx.Value(querierKey{}).(Querier); ok {
		return q
	}
	return fallback
}
