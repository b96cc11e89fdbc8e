package store

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/identity/models"
	"credshare/internal/sentinel"
)

// InMemoryStore stores identities in memory for tests and single-node runs.
type InMemoryStore struct {
	mu         sync.RWMutex
	identities map[common.Address]*models.Identity
}

// New constructs an empty in-memory identity store.
func New() *InMemoryStore {
	return &InMemoryStore{identities: make(map[common.Address]*models.Identity)}
}

func (s *InMemoryStore) Create(_ context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[identity.Owner]; ok {
		return sentinel.ErrConflict
	}
	copyRecord := *identity
	s.identities[identity.Owner] = &copyRecord
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, owner common.Address) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.identities[owner]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyRecord := *record
	return &copyRecord, nil
}

func (s *InMemoryStore) Update(_ context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[identity.Owner]; !ok {
		return sentinel.ErrNotFound
	}
	copyRecord := *identity
	s.identities[identity.Owner] = &copyRecord
	return nil
}
