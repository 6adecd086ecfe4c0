package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/communipay/communipay/internal/apperr"
	"github.com/communipay/communipay/internal/community"
	"github.com/communipay/communipay/internal/storage"
)

const defaultToken = "PTS"

// Service exposes wallet provisioning and listing operations.
type Service struct {
	store       Store
	communities community.Store
	uow         storage.UnitOfWork
}

// NewService builds a wallet service instance.
func NewService(store Store, communities community.Store, uow storage.UnitOfWork) *Service {
	return &Service{store: store, communities: communities, uow: uow}
}

// CreateInput captures data required to create a wallet.
type CreateInput struct {
	OwnerID     string
	Token       string
	CommunityID *string
}

// Create provisions a wallet with its owner membership. Community-scoped
// wallets require an active community.
func (s *Service) Create(ctx context.Context, input CreateInput) (Wallet, error) {
	token := input.Token
	if token == "" {
		token = defaultToken
	}

	if input.CommunityID != nil {
		c, err := s.communities.Get(ctx, *input.CommunityID)
		if err != nil {
			return Wallet{}, err
		}
		if !c.Active() {
			return Wallet{}, apperr.New(apperr.CodeInvalidCommunityID, "community is not active").
				With("community_id", c.ID).With("status", c.Status)
		}
	}

	now := time.Now().UTC()
	w := Wallet{
		ID:          uuid.NewString(),
		OwnerID:     input.OwnerID,
		Token:       token,
		Balance:     0,
		CommunityID: input.CommunityID,
		CreatedAt:   now,
	}

	err := s.uow.Atomically(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, w); err != nil {
			return err
		}
		return s.store.AddMember(ctx, Membership{
			WalletID:  w.ID,
			UserID:    input.OwnerID,
			Role:      RoleOwner,
			CreatedAt: now,
		})
	})
	if err != nil {
		return Wallet{}, err
	}
	return w, nil
}

// Get retrieves a wallet by id.
func (s *Service) Get(ctx context.Context, id string) (Wallet, error) {
	return s.store.Get(ctx, id)
}

// List returns the caller's wallets: the non-shared owned set by default,
// or everything accessible when includeShared is set.
func (s *Service) List(ctx context.Context, userID string, includeShared bool) ([]Wallet, error) {
	if includeShared {
		return s.store.ListAccessible(ctx, userID)
	}
	return s.store.ListOwned(ctx, userID)
}
