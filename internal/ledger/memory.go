package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/communipay/communipay/internal/apperr"
)

// MemoryLedger is a concurrency-safe in-memory ledger for tests and dev
// mode. It implements storage.Snapshotter for unit-of-work rollback.
type MemoryLedger struct {
	mu      sync.RWMutex
	storage map[string]Transaction
}

// NewMemoryLedger constructs an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{storage: make(map[string]Transaction)}
}

// Snapshot captures current state and returns a restore func.
func (l *MemoryLedger) Snapshot() func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	saved := make(map[string]Transaction, len(l.storage))
	for k, v := range l.storage {
		saved[k] = v
	}
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.storage = saved
	}
}

// CreateCompleted inserts a finalized transaction.
func (l *MemoryLedger) CreateCompleted(_ context.Context, spec CompletedSpec) (Transaction, error) {
	senderID := spec.SenderID
	senderWalletID := spec.SenderWalletID
	txn := Transaction{
		ID:               uuid.NewString(),
		Amount:           spec.Amount,
		Description:      spec.Description,
		SenderID:         &senderID,
		SenderWalletID:   &senderWalletID,
		ReceiverID:       spec.ReceiverID,
		ReceiverWalletID: spec.ReceiverWalletID,
		CommunityID:      spec.CommunityID,
		Type:             spec.Type,
		Subtype:          spec.Subtype,
		Status:           StatusCompleted,
		CreatedAt:        time.Now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.storage[txn.ID] = txn
	return txn, nil
}

// CreatePlaceholder reserves a ledger entry with sender fields unset.
func (l *MemoryLedger) CreatePlaceholder(_ context.Context, spec PlaceholderSpec) (Transaction, error) {
	txn := Transaction{
		ID:               uuid.NewString(),
		Amount:           spec.Amount,
		Description:      spec.Description,
		ReceiverID:       spec.ReceiverID,
		ReceiverWalletID: spec.ReceiverWalletID,
		CommunityID:      spec.CommunityID,
		Type:             spec.Type,
		Subtype:          spec.Subtype,
		Status:           StatusPlaceholder,
		CreatedAt:        time.Now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.storage[txn.ID] = txn
	return txn, nil
}

// CompletePlaceholder finalizes a placeholder exactly once; the status
// check happens under the store lock.
func (l *MemoryLedger) CompletePlaceholder(_ context.Context, id, senderID, senderWalletID string) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	txn, ok := l.storage[id]
	if !ok || txn.Status != StatusPlaceholder {
		return Transaction{}, apperr.New(apperr.CodeTransactionNotPlaceholder, "transaction is not a placeholder").
			With("transaction_id", id)
	}

	txn.SenderID = &senderID
	txn.SenderWalletID = &senderWalletID
	txn.Status = StatusCompleted
	l.storage[id] = txn
	return txn, nil
}

// ListByWallet pages transactions touching the wallet, newest first.
func (l *MemoryLedger) ListByWallet(_ context.Context, walletID string, limit, offset int) ([]Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var all []Transaction
	for _, txn := range l.storage {
		if txn.ReceiverWalletID == walletID ||
			(txn.SenderWalletID != nil && *txn.SenderWalletID == walletID) {
			all = append(all, txn)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Get returns a transaction by id. Test helper.
func (l *MemoryLedger) Get(id string) (Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	txn, ok := l.storage[id]
	return txn, ok
}
