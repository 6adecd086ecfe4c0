package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/communipay/communipay/internal/apperr"
)

func TestCreateCompletedSetsAllFields(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	sender := uuid.NewString()
	senderWallet := uuid.NewString()
	txn, err := l.CreateCompleted(ctx, CompletedSpec{
		Amount:           4000,
		Description:      "coffee fund",
		SenderID:         sender,
		SenderWalletID:   senderWallet,
		ReceiverID:       uuid.NewString(),
		ReceiverWalletID: uuid.NewString(),
		Type:             TypePayment,
		Subtype:          SubtypeBalance,
	})
	if err != nil {
		t.Fatalf("create completed: %v", err)
	}
	if txn.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", txn.Status)
	}
	if txn.SenderID == nil || *txn.SenderID != sender {
		t.Fatalf("sender id not set: %+v", txn)
	}
	if txn.SenderWalletID == nil || *txn.SenderWalletID != senderWallet {
		t.Fatalf("sender wallet id not set: %+v", txn)
	}
}

func TestCompletePlaceholderOnce(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	placeholder, err := l.CreatePlaceholder(ctx, PlaceholderSpec{
		ReceiverID:       uuid.NewString(),
		ReceiverWalletID: uuid.NewString(),
		Amount:           1000,
		Type:             TypePayment,
		Subtype:          SubtypeBalance,
	})
	if err != nil {
		t.Fatalf("create placeholder: %v", err)
	}
	if placeholder.Status != StatusPlaceholder {
		t.Fatalf("expected PLACEHOLDER, got %s", placeholder.Status)
	}
	if placeholder.SenderID != nil || placeholder.SenderWalletID != nil {
		t.Fatalf("placeholder must not carry sender fields")
	}

	senderID := uuid.NewString()
	senderWalletID := uuid.NewString()
	completed, err := l.CompletePlaceholder(ctx, placeholder.ID, senderID, senderWalletID)
	if err != nil {
		t.Fatalf("complete placeholder: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", completed.Status)
	}
	if completed.SenderID == nil || *completed.SenderID != senderID {
		t.Fatalf("sender not set on completion")
	}

	if _, err := l.CompletePlaceholder(ctx, placeholder.ID, senderID, senderWalletID); !errors.Is(err, apperr.ErrTransactionNotPlaceholder) {
		t.Fatalf("expected TransactionNotPlaceholder, got %v", err)
	}
}

func TestCompletePlaceholderUnknownID(t *testing.T) {
	l := NewMemoryLedger()
	if _, err := l.CompletePlaceholder(context.Background(), "missing", "u", "w"); !errors.Is(err, apperr.ErrTransactionNotPlaceholder) {
		t.Fatalf("expected TransactionNotPlaceholder, got %v", err)
	}
}

func TestCompletePlaceholderConcurrentExactlyOnce(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	placeholder, err := l.CreatePlaceholder(ctx, PlaceholderSpec{
		ReceiverID:       uuid.NewString(),
		ReceiverWalletID: uuid.NewString(),
		Amount:           1000,
		Type:             TypePayment,
		Subtype:          SubtypeBalance,
	})
	if err != nil {
		t.Fatalf("create placeholder: %v", err)
	}

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.CompletePlaceholder(ctx, placeholder.ID, uuid.NewString(), uuid.NewString())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperr.ErrTransactionNotPlaceholder):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != attempts-1 {
		t.Fatalf("expected exactly one completion, got %d wins %d losses", wins, losses)
	}
}

func TestListByWalletPaging(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	walletID := uuid.NewString()

	for i := 0; i < 5; i++ {
		if _, err := l.CreateCompleted(ctx, CompletedSpec{
			Amount:           int64(100 + i),
			SenderID:         uuid.NewString(),
			SenderWalletID:   uuid.NewString(),
			ReceiverID:       uuid.NewString(),
			ReceiverWalletID: walletID,
			Type:             TypePayment,
			Subtype:          SubtypeBalance,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := l.ListByWallet(ctx, walletID, 3, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3, got %d", len(page))
	}

	rest, err := l.ListByWallet(ctx, walletID, 3, 3)
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("expected 2, got %d", len(rest))
	}

	if none, _ := l.ListByWallet(ctx, walletID, 3, 10); len(none) != 0 {
		t.Fatalf("expected empty page, got %d", len(none))
	}
}
