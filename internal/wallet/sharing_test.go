package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/communipay/communipay/internal/apperr"
	"github.com/communipay/communipay/internal/storage"
)

func newSharingFixture(t *testing.T) (*MemoryStore, *SharingManager) {
	t.Helper()
	store := NewMemoryStore()
	uow := storage.NewMemoryUnitOfWork(store)
	return store, NewSharingManager(store, uow)
}

func TestShareGrantsMembershipAndMarksShared(t *testing.T) {
	store, mgr := newSharingFixture(t)
	ctx := context.Background()
	owner := uuid.NewString()
	recipient := uuid.NewString()
	w := seedWallet(t, store, owner, 0)

	updated, err := mgr.Share(ctx, owner, w.ID, recipient)
	require.NoError(t, err)
	require.True(t, updated.IsShared)

	members, err := store.ListMembers(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, recipient, members[0].UserID)
	require.Equal(t, RoleMember, members[0].Role)
}

func TestShareRejectsNonOwner(t *testing.T) {
	store, mgr := newSharingFixture(t)
	ctx := context.Background()
	w := seedWallet(t, store, uuid.NewString(), 0)

	_, err := mgr.Share(ctx, uuid.NewString(), w.ID, uuid.NewString())
	require.ErrorIs(t, err, apperr.ErrInvalidWalletID)
}

func TestShareRejectsSelf(t *testing.T) {
	store, mgr := newSharingFixture(t)
	ctx := context.Background()
	owner := uuid.NewString()
	w := seedWallet(t, store, owner, 0)

	_, err := mgr.Share(ctx, owner, w.ID, owner)
	require.ErrorIs(t, err, apperr.ErrInvalidRecipientID)

	members, err := store.ListMembers(ctx, w.ID)
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestShareRejectsDuplicate(t *testing.T) {
	store, mgr := newSharingFixture(t)
	ctx := context.Background()
	owner := uuid.NewString()
	recipient := uuid.NewString()
	w := seedWallet(t, store, owner, 0)

	_, err := mgr.Share(ctx, owner, w.ID, recipient)
	require.NoError(t, err)

	_, err = mgr.Share(ctx, owner, w.ID, recipient)
	require.ErrorIs(t, err, apperr.ErrWalletAlreadyShared)

	members, err := store.ListMembers(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
}
