package wallet

import (
	"context"
	"sort"
	"sync"

	"github.com/communipay/communipay/internal/apperr"
)

// MemoryStore is a concurrency-safe in-memory wallet store for tests and
// dev mode. It implements storage.Snapshotter so the in-memory unit of work
// can roll it back.
type MemoryStore struct {
	mu      sync.RWMutex
	wallets map[string]Wallet
	members map[string][]Membership
}

// NewMemoryStore constructs an empty in-memory wallet store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wallets: make(map[string]Wallet),
		members: make(map[string][]Membership),
	}
}

// Snapshot captures current state and returns a restore func.
func (s *MemoryStore) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets := make(map[string]Wallet, len(s.wallets))
	for k, v := range s.wallets {
		wallets[k] = v
	}
	members := make(map[string][]Membership, len(s.members))
	for k, v := range s.members {
		members[k] = append([]Membership(nil), v...)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.wallets = wallets
		s.members = members
	}
}

// Create inserts a wallet record.
func (s *MemoryStore) Create(_ context.Context, w Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[w.ID]; exists {
		return apperr.New(apperr.CodeInvalidWalletID, "wallet already exists").With("wallet_id", w.ID)
	}
	s.wallets[w.ID] = w
	return nil
}

// Get fetches a wallet by id.
func (s *MemoryStore) Get(_ context.Context, id string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[id]
	if !ok {
		return Wallet{}, apperr.New(apperr.CodeInvalidWalletID, "wallet not found").With("wallet_id", id)
	}
	return w, nil
}

// GetOwned fetches a wallet filtered to its owner.
func (s *MemoryStore) GetOwned(_ context.Context, id, ownerID string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[id]
	if !ok || w.OwnerID != ownerID {
		return Wallet{}, apperr.New(apperr.CodeInvalidWalletID, "wallet not found or not owned").
			With("wallet_id", id).With("owner_id", ownerID)
	}
	return w, nil
}

// ListOwned returns the user's non-shared wallets.
func (s *MemoryStore) ListOwned(_ context.Context, userID string) ([]Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Wallet
	for _, w := range s.wallets {
		if w.OwnerID == userID && !w.IsShared {
			out = append(out, w)
		}
	}
	sortWallets(out)
	return out, nil
}

// ListAccessible returns owned wallets plus wallets shared with the user,
// owned first, deduplicated by id.
func (s *MemoryStore) ListAccessible(_ context.Context, userID string) ([]Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned, shared []Wallet
	seen := make(map[string]struct{})
	for _, w := range s.wallets {
		if w.OwnerID == userID {
			owned = append(owned, w)
			seen[w.ID] = struct{}{}
		}
	}
	for walletID, ms := range s.members {
		if _, dup := seen[walletID]; dup {
			continue
		}
		for _, m := range ms {
			if m.UserID == userID {
				if w, ok := s.wallets[walletID]; ok {
					shared = append(shared, w)
				}
				break
			}
		}
	}
	sortWallets(owned)
	sortWallets(shared)
	return append(owned, shared...), nil
}

// ApplyDelta adjusts the balance, re-checking sufficiency under the store
// lock so concurrent debits cannot both pass.
func (s *MemoryStore) ApplyDelta(_ context.Context, id string, delta int64) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return Wallet{}, apperr.New(apperr.CodeInvalidWalletID, "wallet not found").With("wallet_id", id)
	}
	if w.Balance+delta < 0 {
		return Wallet{}, apperr.New(apperr.CodeInsufficientFunds, "balance would go negative").
			With("wallet_id", id).With("delta", delta)
	}
	w.Balance += delta
	s.wallets[id] = w
	return w, nil
}

// ListMembers returns the memberships attached to a wallet.
func (s *MemoryStore) ListMembers(_ context.Context, walletID string) ([]Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Membership(nil), s.members[walletID]...), nil
}

// AddMember inserts a membership row, rejecting duplicates.
func (s *MemoryStore) AddMember(_ context.Context, m Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members[m.WalletID] {
		if existing.UserID == m.UserID {
			return apperr.New(apperr.CodeWalletAlreadyShared, "wallet already shared with user").
				With("wallet_id", m.WalletID).With("recipient_id", m.UserID)
		}
	}
	s.members[m.WalletID] = append(s.members[m.WalletID], m)
	return nil
}

// SetShared flips the derived is_shared flag.
func (s *MemoryStore) SetShared(_ context.Context, walletID string, shared bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return apperr.New(apperr.CodeInvalidWalletID, "wallet not found").With("wallet_id", walletID)
	}
	w.IsShared = shared
	s.wallets[walletID] = w
	return nil
}

func sortWallets(ws []Wallet) {
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].CreatedAt.Equal(ws[j].CreatedAt) {
			return ws[i].ID < ws[j].ID
		}
		return ws[i].CreatedAt.Before(ws[j].CreatedAt)
	})
}
