package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/communipay/communipay/internal/apperr"
)

func seedWallet(t *testing.T, store *MemoryStore, ownerID string, balance int64) Wallet {
	t.Helper()
	w := Wallet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Token:     "PTS",
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Create(context.Background(), w); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	return w
}

func TestApplyDeltaChecksAtWriteTime(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	w := seedWallet(t, store, uuid.NewString(), 100)

	updated, err := store.ApplyDelta(ctx, w.ID, -60)
	if err != nil {
		t.Fatalf("first debit: %v", err)
	}
	if updated.Balance != 40 {
		t.Fatalf("expected balance 40, got %d", updated.Balance)
	}

	if _, err := store.ApplyDelta(ctx, w.ID, -60); !errors.Is(err, apperr.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	final, _ := store.Get(ctx, w.ID)
	if final.Balance != 40 {
		t.Fatalf("failed debit must not change balance, got %d", final.Balance)
	}
}

func TestApplyDeltaUnknownWallet(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.ApplyDelta(context.Background(), "missing", 10); !errors.Is(err, apperr.ErrInvalidWalletID) {
		t.Fatalf("expected invalid wallet id, got %v", err)
	}
}

func TestConcurrentDebitsNeverGoNegative(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	w := seedWallet(t, store, uuid.NewString(), 100)

	const workers = 8
	var wg sync.WaitGroup
	failures := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.ApplyDelta(ctx, w.ID, -60); err != nil {
				failures <- err
			}
		}()
	}
	wg.Wait()
	close(failures)

	var rejected int
	for err := range failures {
		if !errors.Is(err, apperr.ErrInsufficientFunds) {
			t.Fatalf("unexpected error: %v", err)
		}
		rejected++
	}
	if rejected != workers-1 {
		t.Fatalf("expected exactly one debit to succeed, %d rejected", rejected)
	}

	final, _ := store.Get(ctx, w.ID)
	if final.Balance != 40 {
		t.Fatalf("expected final balance 40, got %d", final.Balance)
	}
}

func TestListAccessibleDeduplicatesOwnedFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := uuid.NewString()
	other := uuid.NewString()

	mine := seedWallet(t, store, owner, 10)
	theirs := seedWallet(t, store, other, 20)

	// owner is also a member of their own wallet and of the other wallet
	if err := store.AddMember(ctx, Membership{WalletID: mine.ID, UserID: owner, Role: RoleOwner, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("add owner member: %v", err)
	}
	if err := store.AddMember(ctx, Membership{WalletID: theirs.ID, UserID: owner, Role: RoleMember, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("add member: %v", err)
	}

	list, err := store.ListAccessible(ctx, owner)
	if err != nil {
		t.Fatalf("list accessible: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 wallets, got %d", len(list))
	}
	if list[0].ID != mine.ID {
		t.Fatalf("expected owned wallet first, got %s", list[0].ID)
	}
	if list[1].ID != theirs.ID {
		t.Fatalf("expected shared wallet second, got %s", list[1].ID)
	}
}

func TestListOwnedExcludesShared(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := uuid.NewString()

	solo := seedWallet(t, store, owner, 0)
	shared := seedWallet(t, store, owner, 0)
	if err := store.SetShared(ctx, shared.ID, true); err != nil {
		t.Fatalf("set shared: %v", err)
	}

	list, err := store.ListOwned(ctx, owner)
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if len(list) != 1 || list[0].ID != solo.ID {
		t.Fatalf("expected only the non-shared wallet, got %+v", list)
	}
}
