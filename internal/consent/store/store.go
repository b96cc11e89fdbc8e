package store

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/consent/models"
	id "credshare/pkg/domain"
)

// Error Contract:
// - Find returns sentinel.ErrNotFound when no record exists for (owner, id)
// - Save overwrites any prior record for the same (owner, id)
// - Records are never deleted; revocation is a status value

type Store interface {
	Save(ctx context.Context, record *models.Record) error
	Find(ctx context.Context, owner common.Address, consentID id.ConsentID) (*models.Record, error)
	ListByOwner(ctx context.Context, owner common.Address) ([]*models.Record, error)
}
