// Package store persists reward-token balances, allowances, the minter
// allow-list and the running total supply.
//
// Implementations return sentinel errors from internal/sentinel; the service
// layer translates them into typed domain errors. Amounts are *big.Int and
// implementations must never retain or mutate a caller's value, nor hand back
// an internal one.
package store

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Store is the persistence contract for the reward ledger.
//
// Balance, Allowance and TotalSupply return zero, not ErrNotFound, for
// addresses that were never written. The ledger treats an absent row and a
// zero balance as the same state.
type Store interface {
	Balance(ctx context.Context, owner common.Address) (*big.Int, error)
	SetBalance(ctx context.Context, owner common.Address, amount *big.Int) error

	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	SetAllowance(ctx context.Context, owner, spender common.Address, amount *big.Int) error

	// AddSupply grows the total supply by delta in a single atomic step and
	// returns the new supply. Concurrent callers must never lose increments,
	// whatever locks they do or do not hold.
	TotalSupply(ctx context.Context) (*big.Int, error)
	AddSupply(ctx context.Context, delta *big.Int) (*big.Int, error)

	IsMinter(ctx context.Context, addr common.Address) (bool, error)
	AddMinter(ctx context.Context, addr common.Address) error
	RemoveMinter(ctx context.Context, addr common.Address) error
}
