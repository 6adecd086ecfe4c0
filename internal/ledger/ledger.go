// Package ledger owns the transaction records of the platform. It creates
// finalized transactions, reserves placeholder entries for flows where the
// paying wallet is not yet known, and completes them exactly once. It never
// computes balances; that is the wallet store's job.
package ledger

import (
	"context"
	"time"
)

// Status is a transaction lifecycle state. The only legal transition is
// PLACEHOLDER to COMPLETED, exactly once.
type Status string

const (
	StatusPlaceholder Status = "PLACEHOLDER"
	StatusCompleted   Status = "COMPLETED"
)

// Type classifies a transaction.
type Type string

// TypePayment is a wallet-to-wallet transfer.
const TypePayment Type = "PAYMENT"

// Subtype refines the transaction type.
type Subtype string

// SubtypeBalance marks a plain balance movement.
const SubtypeBalance Subtype = "BALANCE"

// Transaction is a ledger entry. Sender fields stay nil while the entry is
// a placeholder; a COMPLETED transaction is immutable.
type Transaction struct {
	ID               string
	Amount           int64
	Description      string
	SenderID         *string
	SenderWalletID   *string
	ReceiverID       string
	ReceiverWalletID string
	CommunityID      *string
	Type             Type
	Subtype          Subtype
	Status           Status
	CreatedAt        time.Time
}

// CompletedSpec carries every field of a transaction finalized in one step.
type CompletedSpec struct {
	Amount           int64
	Description      string
	SenderID         string
	SenderWalletID   string
	ReceiverID       string
	ReceiverWalletID string
	CommunityID      *string
	Type             Type
	Subtype          Subtype
}

// PlaceholderSpec reserves a ledger entry before the sender side is known.
type PlaceholderSpec struct {
	ReceiverID       string
	ReceiverWalletID string
	Amount           int64
	Description      string
	CommunityID      *string
	Type             Type
	Subtype          Subtype
}

// Ledger is the contract implemented by transaction record backends.
type Ledger interface {
	// CreateCompleted inserts a transaction with status COMPLETED and all
	// fields set in a single step.
	CreateCompleted(ctx context.Context, spec CompletedSpec) (Transaction, error)
	// CreatePlaceholder inserts a PLACEHOLDER transaction with sender
	// fields unset.
	CreatePlaceholder(ctx context.Context, spec PlaceholderSpec) (Transaction, error)
	// CompletePlaceholder sets the sender side and flips the status to
	// COMPLETED, but only while the row is still a placeholder. The
	// conditional predicate makes completion exactly-once under
	// concurrent attempts; losers get TransactionNotPlaceholder.
	CompletePlaceholder(ctx context.Context, id, senderID, senderWalletID string) (Transaction, error)
	// ListByWallet pages through transactions where the wallet is sender
	// or receiver, newest first.
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]Transaction, error)
}
