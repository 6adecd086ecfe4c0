package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUnitOfWork runs units of work inside a PostgreSQL transaction.
type PgUnitOfWork struct {
	db *pgxpool.Pool
}

// NewPgUnitOfWork builds a Postgres-backed unit of work.
func NewPgUnitOfWork(db *pgxpool.Pool) *PgUnitOfWork {
	return &PgUnitOfWork{db: db}
}

// Atomically begins a transaction, injects it into the context for store
// implementations, and commits only if fn succeeds.
func (u *PgUnitOfWork) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(WithQuerier(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
