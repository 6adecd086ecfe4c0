package storage

import (
	"context"
	"sync"
)

// Snapshotter is implemented by in-memory stores that can capture their
// state and restore it, giving the in-memory unit of work real rollback
// semantics.
type Snapshotter interface {
	Snapshot() (restore func())
}

// MemoryUnitOfWork serializes units of work over a set of in-memory stores.
// On failure it restores every participating store to its pre-unit state.
type MemoryUnitOfWork struct {
	mu     sync.Mutex
	stores []Snapshotter
}

// NewMemoryUnitOfWork builds an in-memory unit of work over the given stores.
func NewMemoryUnitOfWork(stores ...Snapshotter) *MemoryUnitOfWork {
	return &MemoryUnitOfWork{stores: stores}
}

// Atomically runs fn under the unit lock, rolling every store back if fn
// fails or the context is already cancelled.
func (u *MemoryUnitOfWork) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	restores := make([]func(), 0, len(u.stores))
	for _, s := range u.stores {
		restores = append(restores, s.Snapshot())
	}

	if err := fn(ctx); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}
