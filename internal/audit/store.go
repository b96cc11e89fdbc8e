package audit

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Store persists audit events append-only; events are never updated or
// deleted.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByOwner(ctx context.Context, owner common.Address) ([]Event, error)
}
