package storage

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	value int
}

func (s *fakeStore) Snapshot() func() {
	saved := s.value
	return func() { s.value = saved }
}

func TestMemoryUnitOfWorkCommits(t *testing.T) {
	store := &fakeStore{value: 1}
	uow := NewMemoryUnitOfWork(store)

	err := uow.Atomically(context.Background(), func(context.Context) error {
		store.value = 2
		return nil
	})
	if err != nil {
		t.Fatalf("atomically: %v", err)
	}
	if store.value != 2 {
		t.Fatalf("expected committed value 2, got %d", store.value)
	}
}

func TestMemoryUnitOfWorkRollsBackOnError(t *testing.T) {
	store := &fakeStore{value: 1}
	uow := NewMemoryUnitOfWork(store)

	boom := errors.New("boom")
	err := uow.Atomically(context.Background(), func(context.Context) error {
		store.value = 2
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if store.value != 1 {
		t.Fatalf("expected rollback to 1, got %d", store.value)
	}
}

func TestMemoryUnitOfWorkRejectsCancelledContext(t *testing.T) {
	store := &fakeStore{value: 1}
	uow := NewMemoryUnitOfWork(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := uow.Atomically(ctx, func(context.Context) error {
		ran = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ran {
		t.Fatalf("fn must not run after cancellation")
	}
}
