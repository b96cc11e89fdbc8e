package store

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/consent/models"
	"credshare/internal/sentinel"
	id "credshare/pkg/domain"
)

// InMemoryStore stores consent records in memory for tests and single-node runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	consents map[common.Address]map[id.ConsentID]*models.Record
}

// New constructs an empty in-memory consent store.
func New() *InMemoryStore {
	return &InMemoryStore{consents: make(map[common.Address]map[id.ConsentID]*models.Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.consents[record.Owner]
	if !ok {
		records = make(map[id.ConsentID]*models.Record)
		s.consents[record.Owner] = records
	}
	copyRecord := *record
	records[record.ID] = &copyRecord
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, owner common.Address, consentID id.ConsentID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.consents[owner][consentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyRecord := *record
	return &copyRecord, nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, owner common.Address) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Record
	for _, record := range s.consents[owner] {
		copyRecord := *record
		out = append(out, &copyRecord)
	}
	return out, nil
}
