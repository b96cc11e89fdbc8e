package store

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/identity/models"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested identity does not exist
// - Return sentinel.ErrConflict from Create when the identity already exists
// - Return wrapped errors with context for infrastructure failures

type Store interface {
	Create(ctx context.Context, identity *models.Identity) error
	Find(ctx context.Context, owner common.Address) (*models.Identity, error)
	Update(ctx context.Context, identity *models.Identity) error
}
