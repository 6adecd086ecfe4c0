package wallet

import "time"

// Role identifies a user's relationship to a wallet.
type Role string

const (
	// RoleOwner is held by the wallet creator.
	RoleOwner Role = "OWNER"
	// RoleMember is granted to co-owners through sharing.
	RoleMember Role = "MEMBER"
)

// Wallet holds a balance in one token type, optionally scoped to a
// community. Balances are int64 minor units and never go negative.
type Wallet struct {
	ID          string
	OwnerID     string
	Token       string
	Balance     int64
	CommunityID *string
	IsShared    bool
	CreatedAt   time.Time
}

// Membership links a user to a wallet beyond the primary owner.
type Membership struct {
	WalletID  string
	UserID    string
	Role      Role
	CreatedAt time.Time
}

// CanOperate reports whether userID may spend from w: the owner always can,
// and so can any membership holder. It is a pure predicate over loaded
// state, evaluated by the payment engine before any mutation.
func CanOperate(w Wallet, memberships []Membership, userID string) bool {
	if w.OwnerID == userID {
		return true
	}
	for _, m := range memberships {
		if m.WalletID == w.ID && m.UserID == userID {
			return true
		}
	}
	return false
}

// SameCommunity compares two optional community scopes; both-nil counts as
// equal.
func SameCommunity(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
