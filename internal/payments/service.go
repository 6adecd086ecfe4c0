// Package payments orchestrates wallet-to-wallet transfers. The engine
// validates every precondition up front, then performs the ledger write and
// both balance deltas inside one atomic unit of work.
package payments

import (
	"context"

	"github.com/communipay/communipay/internal/apperr"
	"github.com/communipay/communipay/internal/ledger"
	"github.com/communipay/communipay/internal/storage"
	"github.com/communipay/communipay/internal/wallet"
)

// Engine is the payment transaction engine.
type Engine struct {
	wallets wallet.Store
	ledger  ledger.Ledger
	uow     storage.UnitOfWork
}

// NewEngine constructs a payment engine.
func NewEngine(wallets wallet.Store, l ledger.Ledger, uow storage.UnitOfWork) *Engine {
	return &Engine{wallets: wallets, ledger: l, uow: uow}
}

// CreatePaymentInput captures a transfer request. Amount is in minor units.
// TransactionID, when set, names an existing placeholder to complete
// instead of inserting a new ledger entry.
type CreatePaymentInput struct {
	ActingUserID     string
	SenderWalletID   string
	ReceiverWalletID string
	Amount           int64
	ReceiverUserID   string
	Description      string
	CommunityID      *string
	TransactionID    string
}

// PaymentResult is the outcome of a successful transfer.
type PaymentResult struct {
	Transaction  ledger.Transaction
	SenderWallet wallet.Wallet
}

// CreatePayment validates and executes one transfer. Every validation
// failure aborts before any mutation; the ledger write and both balance
// deltas commit together or not at all.
func (e *Engine) CreatePayment(ctx context.Context, in CreatePaymentInput) (PaymentResult, error) {
	if in.Amount <= 0 {
		return PaymentResult{}, apperr.New(apperr.CodeInvalidAmount, "amount must be positive").
			With("amount", in.Amount)
	}

	sender, err := e.wallets.Get(ctx, in.SenderWalletID)
	if err != nil {
		return PaymentResult{}, err
	}
	members, err := e.wallets.ListMembers(ctx, sender.ID)
	if err != nil {
		return PaymentResult{}, err
	}
	if !wallet.CanOperate(sender, members, in.ActingUserID) {
		return PaymentResult{}, apperr.New(apperr.CodeInvalidWalletID, "wallet not accessible to user").
			With("wallet_id", sender.ID).With("user_id", in.ActingUserID)
	}

	// Advisory pre-check only: the authoritative sufficiency check is the
	// conditional predicate inside ApplyDelta.
	if sender.Balance < in.Amount {
		return PaymentResult{}, apperr.New(apperr.CodeInsufficientFunds, "insufficient funds").
			With("wallet_id", sender.ID).With("balance", sender.Balance).With("amount", in.Amount)
	}

	receiver, err := e.wallets.Get(ctx, in.ReceiverWalletID)
	if err != nil {
		return PaymentResult{}, err
	}

	if !wallet.SameCommunity(sender.CommunityID, receiver.CommunityID) {
		return PaymentResult{}, communityMismatch(sender, receiver)
	}
	if in.CommunityID != nil && !wallet.SameCommunity(in.CommunityID, sender.CommunityID) {
		return PaymentResult{}, apperr.New(apperr.CodeInvalidWalletCommunity, "requested community does not match wallet").
			With("community_id", *in.CommunityID).With("sender_wallet_id", sender.ID)
	}
	if receiver.Token != sender.Token {
		return PaymentResult{}, apperr.New(apperr.CodeInvalidWalletToken, "wallet tokens differ").
			With("sender_token", sender.Token).With("receiver_token", receiver.Token)
	}
	if receiver.ID == sender.ID {
		return PaymentResult{}, apperr.New(apperr.CodeWalletCannotSendToItself, "sender and receiver are the same wallet").
			With("wallet_id", sender.ID)
	}

	var (
		txn     ledger.Transaction
		debited wallet.Wallet
	)
	err = e.uow.Atomically(ctx, func(ctx context.Context) error {
		var err error
		if in.TransactionID != "" {
			txn, err = e.ledger.CompletePlaceholder(ctx, in.TransactionID, in.ActingUserID, in.SenderWalletID)
		} else {
			receiverID := in.ReceiverUserID
			if receiverID == "" {
				receiverID = receiver.OwnerID
			}
			txn, err = e.ledger.CreateCompleted(ctx, ledger.CompletedSpec{
				Amount:           in.Amount,
				Description:      in.Description,
				SenderID:         in.ActingUserID,
				SenderWalletID:   in.SenderWalletID,
				ReceiverID:       receiverID,
				ReceiverWalletID: in.ReceiverWalletID,
				CommunityID:      sender.CommunityID,
				Type:             ledger.TypePayment,
				Subtype:          ledger.SubtypeBalance,
			})
		}
		if err != nil {
			return err
		}

		if debited, err = e.wallets.ApplyDelta(ctx, in.SenderWalletID, -in.Amount); err != nil {
			return err
		}
		if _, err = e.wallets.ApplyDelta(ctx, in.ReceiverWalletID, in.Amount); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}

	return PaymentResult{Transaction: txn, SenderWallet: debited}, nil
}

func communityMismatch(sender, receiver wallet.Wallet) error {
	e := apperr.New(apperr.CodeInvalidWalletCommunity, "wallet communities differ").
		With("sender_wallet_id", sender.ID).With("receiver_wallet_id", receiver.ID)
	if sender.CommunityID != nil {
		e = e.With("sender_community_id", *sender.CommunityID)
	}
	if receiver.CommunityID != nil {
		e = e.With("receiver_community_id", *receiver.CommunityID)
	}
	return e
}
