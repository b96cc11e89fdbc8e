package store

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type pairKey struct {
	owner     common.Address
	requester common.Address
}

// InMemoryStore keeps reward claims in a map.
type InMemoryStore struct {
	mu     sync.RWMutex
	claims map[pairKey]struct{}
}

func New() *InMemoryStore {
	return &InMemoryStore{claims: make(map[pairKey]struct{})}
}

func (s *InMemoryStore) Claimed(_ context.Context, owner, requester common.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.claims[pairKey{owner, requester}]
	return ok, nil
}

func (s *InMemoryStore) MarkClaimed(_ context.Context, owner, requester common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[pairKey{owner, requester}] = struct{}{}
	return nil
}
