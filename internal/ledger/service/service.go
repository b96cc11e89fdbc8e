package service

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/audit"
	"credshare/internal/ledger/store"
	"credshare/internal/platform/metrics"
	dErrors "credshare/pkg/domain-errors"
	platformsync "credshare/pkg/platform/sync"
)

// Store defines the persistence interface for the reward ledger.
type Store interface {
	Balance(ctx context.Context, owner common.Address) (*big.Int, error)
	SetBalance(ctx context.Context, owner common.Address, amount *big.Int) error
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	SetAllowance(ctx context.Context, owner, spender common.Address, amount *big.Int) error
	TotalSupply(ctx context.Context) (*big.Int, error)
	AddSupply(ctx context.Context, delta *big.Int) (*big.Int, error)
	IsMinter(ctx context.Context, addr common.Address) (bool, error)
	AddMinter(ctx context.Context, addr common.Address) error
	RemoveMinter(ctx context.Context, addr common.Address) error
}

var _ Store = (*store.InMemoryStore)(nil)

// Service is the reward-token ledger: balances, allowances, and a minter
// allow-list administered by a single ledger owner. Supply only grows through
// Mint; there is no burn.
type Service struct {
	store   Store
	owner   common.Address
	auditor *audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	locks   *platformsync.ShardedMutex
}

type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the ledger. owner is the administrative address that
// manages the minter allow-list; it is also seeded as a minter itself. A zero
// owner is rejected: without the seeded minter nothing could ever mint, so the
// ledger would be permanently empty.
func NewService(st Store, owner common.Address, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) (*Service, error) {
	if owner == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "ledger owner address required")
	}
	svc := &Service{
		store:   st,
		owner:   owner,
		auditor: auditor,
		logger:  logger,
		locks:   platformsync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if err := st.AddMinter(context.Background(), owner); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed ledger owner as minter")
	}
	return svc, nil
}

// Mint credits amount to the recipient and grows the total supply. Only
// addresses on the minter allow-list may mint.
func (s *Service) Mint(ctx context.Context, caller, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return dErrors.New(dErrors.CodeInvalidAddress, "cannot mint to the zero address")
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	isMinter, err := s.store.IsMinter(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check minter")
	}
	if !isMinter {
		return dErrors.New(dErrors.CodeNotMinter, "caller is not a minter")
	}

	s.locks.Lock(to.Hex())
	defer s.locks.Unlock(to.Hex())

	balance, err := s.store.Balance(ctx, to)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
	}
	if err := s.store.SetBalance(ctx, to, new(big.Int).Add(balance, amount)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write balance")
	}
	// The shard lock covers only the recipient; minters targeting other
	// shards run concurrently, so the supply mutation must be atomic in
	// the store.
	supply, err := s.store.AddSupply(ctx, amount)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to grow supply")
	}

	s.emit(ctx, audit.Event{
		Action:       audit.ActionTransfer,
		Owner:        to,
		Counterparty: common.Address{},
		Amount:       amount.String(),
	})
	if s.metrics != nil {
		supplyF, _ := new(big.Float).SetInt(supply).Float64()
		s.metrics.RewardSupply.Set(supplyF)
	}
	s.log(ctx, "minted", "to", to.Hex(), "amount", amount.String())
	return nil
}

// Transfer moves amount from the caller to the recipient.
func (s *Service) Transfer(ctx context.Context, caller, to common.Address, amount *big.Int) error {
	if caller == (common.Address{}) || to == (common.Address{}) {
		return dErrors.New(dErrors.CodeInvalidAddress, "transfer endpoints must be non-zero")
	}
	if err := validAmount(amount); err != nil {
		return err
	}

	s.locks.LockPair(caller.Hex(), to.Hex())
	defer s.locks.UnlockPair(caller.Hex(), to.Hex())

	return s.move(ctx, caller, to, amount)
}

// Approve sets the spender's allowance over the caller's balance. The value
// replaces any prior allowance.
func (s *Service) Approve(ctx context.Context, caller, spender common.Address, amount *big.Int) error {
	if caller == (common.Address{}) || spender == (common.Address{}) {
		return dErrors.New(dErrors.CodeInvalidAddress, "approval endpoints must be non-zero")
	}
	if amount == nil || amount.Sign() < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be non-negative")
	}

	s.locks.Lock(caller.Hex())
	defer s.locks.Unlock(caller.Hex())

	if err := s.store.SetAllowance(ctx, caller, spender, amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write allowance")
	}
	s.emit(ctx, audit.Event{
		Action:       audit.ActionApproval,
		Owner:        caller,
		Counterparty: spender,
		Amount:       amount.String(),
	})
	return nil
}

// TransferFrom moves amount from one address to another on the strength of an
// allowance granted to the caller. The allowance shrinks by the amount moved.
func (s *Service) TransferFrom(ctx context.Context, caller, from, to common.Address, amount *big.Int) error {
	if from == (common.Address{}) || to == (common.Address{}) {
		return dErrors.New(dErrors.CodeInvalidAddress, "transfer endpoints must be non-zero")
	}
	if err := validAmount(amount); err != nil {
		return err
	}

	s.locks.LockPair(from.Hex(), to.Hex())
	defer s.locks.UnlockPair(from.Hex(), to.Hex())

	allowance, err := s.store.Allowance(ctx, from, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read allowance")
	}
	if allowance.Cmp(amount) < 0 {
		return dErrors.New(dErrors.CodeInsufficientAllowance, "allowance too small")
	}
	if err := s.move(ctx, from, to, amount); err != nil {
		return err
	}
	if err := s.store.SetAllowance(ctx, from, caller, new(big.Int).Sub(allowance, amount)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write allowance")
	}
	return nil
}

// AddMinter puts an address on the minter allow-list. Ledger owner only.
func (s *Service) AddMinter(ctx context.Context, caller, addr common.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if addr == (common.Address{}) {
		return dErrors.New(dErrors.CodeInvalidAddress, "minter address required")
	}
	if err := s.store.AddMinter(ctx, addr); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add minter")
	}
	s.emit(ctx, audit.Event{Action: audit.ActionMinterAdded, Owner: addr, Counterparty: caller})
	return nil
}

// RemoveMinter takes an address off the minter allow-list. Ledger owner only.
func (s *Service) RemoveMinter(ctx context.Context, caller, addr common.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if err := s.store.RemoveMinter(ctx, addr); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove minter")
	}
	s.emit(ctx, audit.Event{Action: audit.ActionMinterRemoved, Owner: addr, Counterparty: caller})
	return nil
}

// BalanceOf returns the address's current balance. Unknown addresses hold zero.
func (s *Service) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	if owner == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "owner address required")
	}
	balance, err := s.store.Balance(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
	}
	return balance, nil
}

// AllowanceOf returns what spender may still move out of owner's balance.
func (s *Service) AllowanceOf(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	if owner == (common.Address{}) || spender == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "owner and spender addresses required")
	}
	allowance, err := s.store.Allowance(ctx, owner, spender)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read allowance")
	}
	return allowance, nil
}

// TotalSupply returns the amount minted to date.
func (s *Service) TotalSupply(ctx context.Context) (*big.Int, error) {
	supply, err := s.store.TotalSupply(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read supply")
	}
	return supply, nil
}

// IsMinter reports whether the address may mint.
func (s *Service) IsMinter(ctx context.Context, addr common.Address) (bool, error) {
	isMinter, err := s.store.IsMinter(ctx, addr)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check minter")
	}
	return isMinter, nil
}

// move debits from and credits to. Callers hold the pair lock.
func (s *Service) move(ctx context.Context, from, to common.Address, amount *big.Int) error {
	balance, err := s.store.Balance(ctx, from)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
	}
	if balance.Cmp(amount) < 0 {
		return dErrors.New(dErrors.CodeInsufficientBalance, "balance too small")
	}
	if err := s.store.SetBalance(ctx, from, new(big.Int).Sub(balance, amount)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write balance")
	}
	toBalance, err := s.store.Balance(ctx, to)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
	}
	if err := s.store.SetBalance(ctx, to, new(big.Int).Add(toBalance, amount)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write balance")
	}

	s.emit(ctx, audit.Event{
		Action:       audit.ActionTransfer,
		Owner:        from,
		Counterparty: to,
		Amount:       amount.String(),
	})
	return nil
}

func (s *Service) requireOwner(caller common.Address) error {
	if caller != s.owner {
		return dErrors.New(dErrors.CodeNotOwner, "caller is not the ledger owner")
	}
	return nil
}

func validAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor != nil {
		s.auditor.Emit(ctx, event)
	}
}

func (s *Service) log(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
