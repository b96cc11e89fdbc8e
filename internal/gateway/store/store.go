// Package store persists reward claims: one flag per (owner, requester)
// pair recording that the pair's one-time access reward has been minted.
// A claim, once set, never resets.
package store

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Store is the persistence contract for reward claims.
type Store interface {
	Claimed(ctx context.Context, owner, requester common.Address) (bool, error)
	MarkClaimed(ctx context.Context, owner, requester common.Address) error
}
