package community

import (
	"context"
	"sync"

	"github.com/communipay/communipay/internal/apperr"
)

// MemoryStore is an in-memory community store for tests and dev mode.
type MemoryStore struct {
	mu      sync.RWMutex
	storage map[string]Community
}

// NewMemoryStore constructs an empty in-memory community store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{storage: make(map[string]Community)}
}

// Put seeds a community record.
func (s *MemoryStore) Put(c Community) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage[c.ID] = c
}

func (s *MemoryStore) Get(_ context.Context, id string) (Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.storage[id]
	if !ok {
		return Community{}, apperr.New(apperr.CodeInvalidCommunityID, "community not found").With("community_id", id)
	}
	return c, nil
}
