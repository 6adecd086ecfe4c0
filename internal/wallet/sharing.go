package wallet

import (
	"context"
	"time"

	"github.com/communipay/communipay/internal/apperr"
	"github.com/communipay/communipay/internal/storage"
)

// SharingManager grants co-ownership of a wallet to another user. Only the
// primary owner can share; the grant and the derived is_shared flag are
// written in one atomic unit.
type SharingManager struct {
	store Store
	uow   storage.UnitOfWork
}

// NewSharingManager builds a sharing manager.
func NewSharingManager(store Store, uow storage.UnitOfWork) *SharingManager {
	return &SharingManager{store: store, uow: uow}
}

// Share grants recipientID MEMBER access to the owner's wallet and returns
// the updated wallet.
func (m *SharingManager) Share(ctx context.Context, ownerID, walletID, recipientID string) (Wallet, error) {
	w, err := m.store.GetOwned(ctx, walletID, ownerID)
	if err != nil {
		return Wallet{}, err
	}

	if recipientID == "" || recipientID == ownerID {
		return Wallet{}, apperr.New(apperr.CodeInvalidRecipientID, "recipient must be another user").
			With("wallet_id", walletID).With("recipient_id", recipientID)
	}

	members, err := m.store.ListMembers(ctx, walletID)
	if err != nil {
		return Wallet{}, err
	}
	for _, existing := range members {
		if existing.UserID == recipientID {
			return Wallet{}, apperr.New(apperr.CodeWalletAlreadyShared, "wallet already shared with user").
				With("wallet_id", walletID).With("recipient_id", recipientID)
		}
	}

	err = m.uow.Atomically(ctx, func(ctx context.Context) error {
		if err := m.store.AddMember(ctx, Membership{
			WalletID:  walletID,
			UserID:    recipientID,
			Role:      RoleMember,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return m.store.SetShared(ctx, walletID, true)
	})
	if err != nil {
		return Wallet{}, err
	}

	return m.store.Get(ctx, w.ID)
}
