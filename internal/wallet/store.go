package wallet

import "context"

// Store is the source of truth for wallet balances and ownership metadata.
// Implementations must honor the conditional semantics of ApplyDelta: the
// sufficiency predicate is evaluated at write time, not at an earlier read.
type Store interface {
	Create(ctx context.Context, w Wallet) error
	Get(ctx context.Context, id string) (Wallet, error)
	// GetOwned loads a wallet only when ownerID matches its owner.
	GetOwned(ctx context.Context, id, ownerID string) (Wallet, error)
	// ListOwned returns the user's non-shared wallets.
	ListOwned(ctx context.Context, userID string) ([]Wallet, error)
	// ListAccessible returns owned wallets plus wallets shared with the
	// user, deduplicated by id with owned wallets taking precedence.
	ListAccessible(ctx context.Context, userID string) ([]Wallet, error)
	// ApplyDelta adjusts the balance by delta in a single conditional
	// update whose predicate re-checks balance+delta >= 0 at write time.
	// Two concurrent debits can therefore never both succeed past zero.
	ApplyDelta(ctx context.Context, id string, delta int64) (Wallet, error)

	ListMembers(ctx context.Context, walletID string) ([]Membership, error)
	AddMember(ctx context.Context, m Membership) error
	SetShared(ctx context.Context, walletID string, shared bool) error
}
