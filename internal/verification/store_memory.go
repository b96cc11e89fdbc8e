package verification

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/sentinel"
)

// InMemoryStore keeps challenges and evidence records in maps.
type InMemoryStore struct {
	mu         sync.RWMutex
	challenges map[common.Address]Challenge
	records    map[common.Address]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		challenges: make(map[common.Address]Challenge),
		records:    make(map[common.Address]Record),
	}
}

func (s *InMemoryStore) SaveChallenge(_ context.Context, owner common.Address, challenge *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[owner] = *challenge
	return nil
}

func (s *InMemoryStore) FindChallenge(_ context.Context, owner common.Address) (*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if challenge, ok := s.challenges[owner]; ok {
		copied := challenge
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) DeleteChallenge(_ context.Context, owner common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.challenges[owner]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.challenges, owner)
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, owner common.Address) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[owner]; ok {
		copied := record
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) SetEmailHash(_ context.Context, owner common.Address, hash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.records[owner]
	record.Owner = owner
	record.EmailHash = hash
	record.UpdatedAt = now
	s.records[owner] = record
	return nil
}

func (s *InMemoryStore) SetNationalIDHash(_ context.Context, owner common.Address, hash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.records[owner]
	record.Owner = owner
	record.NationalIDHash = hash
	record.UpdatedAt = now
	s.records[owner] = record
	return nil
}
