// Package community exposes read-only community lookups. Community
// lifecycle is owned elsewhere; the payment platform only checks wallet
// scoping against it.
package community

import "context"

const (
	// StatusActive marks a community accepting new wallets.
	StatusActive = "ACTIVE"
	// StatusArchived marks a community closed to new wallets.
	StatusArchived = "ARCHIVED"
)

// Community scopes wallets and transactions to a membership group.
type Community struct {
	ID       string
	Status   string
	IsPublic bool
}

// Active reports whether the community accepts new wallets.
func (c Community) Active() bool {
	return c.Status == StatusActive
}

// Store reads community records.
type Store interface {
	Get(ctx context.Context, id string) (Community, error)
}
