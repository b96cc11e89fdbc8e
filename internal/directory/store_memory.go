package directory

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/sentinel"
)

// InMemoryStore keeps bindings in two maps so both lookup directions are
// constant time.
type InMemoryStore struct {
	mu     sync.RWMutex
	byName map[string]common.Address
	byAddr map[common.Address]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byName: make(map[string]common.Address),
		byAddr: make(map[common.Address]string),
	}
}

func (s *InMemoryStore) Bind(_ context.Context, username string, addr common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[username]; taken {
		return sentinel.ErrConflict
	}
	if _, bound := s.byAddr[addr]; bound {
		return sentinel.ErrConflict
	}
	s.byName[username] = addr
	s.byAddr[addr] = username
	return nil
}

func (s *InMemoryStore) Resolve(_ context.Context, username string) (common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addr, ok := s.byName[username]
	if !ok {
		return common.Address{}, sentinel.ErrNotFound
	}
	return addr, nil
}

func (s *InMemoryStore) NameOf(_ context.Context, addr common.Address) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.byAddr[addr]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return name, nil
}
