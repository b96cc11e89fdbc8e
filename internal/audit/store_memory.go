package audit

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[common.Address][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[common.Address][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Owner] = append(s.events[event.Owner], event)
	return nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, owner common.Address) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[owner]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[common.Address][]Event)
}
