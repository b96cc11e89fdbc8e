package store

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// InMemoryStore keeps the ledger in maps. Values are copied on every read and
// write so callers can never alias the store's big.Ints.
type InMemoryStore struct {
	mu         sync.RWMutex
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
	minters    map[common.Address]struct{}
	supply     *big.Int
}

func New() *InMemoryStore {
	return &InMemoryStore{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
		minters:    make(map[common.Address]struct{}),
		supply:     new(big.Int),
	}
}

func (s *InMemoryStore) Balance(_ context.Context, owner common.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.balances[owner]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (s *InMemoryStore) SetBalance(_ context.Context, owner common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[owner] = new(big.Int).Set(amount)
	return nil
}

func (s *InMemoryStore) Allowance(_ context.Context, owner, spender common.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if bysp, ok := s.allowances[owner]; ok {
		if a, ok := bysp[spender]; ok {
			return new(big.Int).Set(a), nil
		}
	}
	return new(big.Int), nil
}

func (s *InMemoryStore) SetAllowance(_ context.Context, owner, spender common.Address, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bysp, ok := s.allowances[owner]
	if !ok {
		bysp = make(map[common.Address]*big.Int)
		s.allowances[owner] = bysp
	}
	bysp[spender] = new(big.Int).Set(amount)
	return nil
}

func (s *InMemoryStore) TotalSupply(_ context.Context) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(big.Int).Set(s.supply), nil
}

func (s *InMemoryStore) AddSupply(_ context.Context, delta *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supply.Add(s.supply, delta)
	return new(big.Int).Set(s.supply), nil
}

func (s *InMemoryStore) IsMinter(_ context.Context, addr common.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.minters[addr]
	return ok, nil
}

func (s *InMemoryStore) AddMinter(_ context.Context, addr common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minters[addr] = struct{}{}
	return nil
}

func (s *InMemoryStore) RemoveMinter(_ context.Context, addr common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.minters, addr)
	return nil
}
