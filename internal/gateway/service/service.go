// Package service implements the access gateway: the single entry point
// requesters use to read an owner's classification fields. It composes the
// identity and consent services and, on the first successful access for a
// given (owner, requester) pair, mints a fixed reward to the owner.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks IdentityReader,ConsentChecker,RewardMinter,ClaimStore

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"credshare/internal/audit"
	"credshare/internal/gateway/store"
	identitymodels "credshare/internal/identity/models"
	"credshare/internal/platform/metrics"
	dErrors "credshare/pkg/domain-errors"
	platformsync "credshare/pkg/platform/sync"
)

const (
	fieldCreditTier = "credit_tier"
	fieldIncomeBand = "income_band"
)

// IdentityReader reads an owner's classification fields.
type IdentityReader interface {
	CreditTier(ctx context.Context, owner common.Address) (identitymodels.CreditTier, error)
	IncomeBand(ctx context.Context, owner common.Address) (identitymodels.IncomeBand, error)
}

// ConsentChecker answers whether (owner, requester) holds a live grant.
type ConsentChecker interface {
	IsGranted(ctx context.Context, owner, requester common.Address) (bool, error)
}

// RewardMinter mints the access reward. The gateway calls it as its own
// allow-listed minter principal.
type RewardMinter interface {
	Mint(ctx context.Context, caller, to common.Address, amount *big.Int) error
}

// ClaimStore records which pairs already received their one-time reward.
type ClaimStore interface {
	Claimed(ctx context.Context, owner, requester common.Address) (bool, error)
	MarkClaimed(ctx context.Context, owner, requester common.Address) error
}

var _ ClaimStore = (*store.InMemoryStore)(nil)

// Service is the access gateway.
type Service struct {
	identities IdentityReader
	consents   ConsentChecker
	ledger     RewardMinter
	claims     ClaimStore

	minter common.Address
	reward *big.Int

	auditor *audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
	locks   *platformsync.ShardedMutex
}

type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the gateway. minter is the principal the gateway
// mints as; it must be on the ledger's allow-list. reward is the fixed amount
// minted to an owner on the pair's first successful access.
func NewService(
	identities IdentityReader,
	consents ConsentChecker,
	ledger RewardMinter,
	claims ClaimStore,
	minter common.Address,
	reward *big.Int,
	auditor *audit.Publisher,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	svc := &Service{
		identities: identities,
		consents:   consents,
		ledger:     ledger,
		claims:     claims,
		minter:     minter,
		reward:     reward,
		auditor:    auditor,
		logger:     logger,
		tracer:     otel.Tracer("credshare/gateway"),
		locks:      platformsync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// GetCreditTier returns the owner's credit tier to the requester, behind the
// registration and consent checks.
func (s *Service) GetCreditTier(ctx context.Context, requester, owner common.Address) (identitymodels.CreditTier, error) {
	var tier identitymodels.CreditTier
	err := s.access(ctx, requester, owner, fieldCreditTier, func(ctx context.Context) error {
		var err error
		tier, err = s.identities.CreditTier(ctx, owner)
		return err
	})
	if err != nil {
		return identitymodels.TierNone, err
	}
	return tier, nil
}

// GetIncomeBand returns the owner's income band to the requester, behind the
// registration and consent checks.
func (s *Service) GetIncomeBand(ctx context.Context, requester, owner common.Address) (identitymodels.IncomeBand, error) {
	var band identitymodels.IncomeBand
	err := s.access(ctx, requester, owner, fieldIncomeBand, func(ctx context.Context) error {
		var err error
		band, err = s.identities.IncomeBand(ctx, owner)
		return err
	})
	if err != nil {
		return identitymodels.BandNone, err
	}
	return band, nil
}

// access runs the shared decision: registration first, consent second, then
// the one-time reward. An unregistered owner denies before the consent
// lookup so the two failure modes stay distinguishable.
func (s *Service) access(ctx context.Context, requester, owner common.Address, field string, read func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "gateway.access", trace.WithAttributes(
		attribute.String("field", field),
		attribute.String("owner", owner.Hex()),
		attribute.String("requester", requester.Hex()),
	))
	defer span.End()

	if err := read(ctx); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotRegistered) {
			s.deny(ctx, span, requester, owner, field, audit.ReasonUserNotRegistered)
			return dErrors.New(dErrors.CodeUserNotRegistered, "owner is not registered")
		}
		span.RecordError(err)
		return err
	}

	granted, err := s.consents.IsGranted(ctx, owner, requester)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !granted {
		s.deny(ctx, span, requester, owner, field, audit.ReasonNoValidConsent)
		return dErrors.New(dErrors.CodeMissingConsent, "no valid consent for requester")
	}

	s.emit(ctx, audit.Event{
		Action:       audit.ActionDataAccessGranted,
		Owner:        owner,
		Counterparty: requester,
		Field:        field,
	})
	if s.metrics != nil {
		s.metrics.AccessGranted.WithLabelValues(field).Inc()
	}
	span.SetAttributes(attribute.Bool("granted", true))

	s.distributeReward(ctx, requester, owner)
	return nil
}

// distributeReward mints the fixed reward to the owner the first time this
// pair accesses any field. The claim check-and-set and the mint run as one
// critical section under the pair lock so two concurrent first accesses
// cannot double-mint. The claim is only marked after a successful mint; a
// mint failure leaves the claim unset so the reward is retried on the next
// access, and never fails the read itself.
func (s *Service) distributeReward(ctx context.Context, requester, owner common.Address) {
	if s.reward == nil || s.reward.Sign() <= 0 {
		return
	}

	s.locks.LockPair(owner.Hex(), requester.Hex())
	defer s.locks.UnlockPair(owner.Hex(), requester.Hex())

	claimed, err := s.claims.Claimed(ctx, owner, requester)
	if err != nil {
		s.log(ctx, "reward claim lookup failed", "owner", owner.Hex(), "error", err)
		return
	}
	if claimed {
		return
	}

	if err := s.ledger.Mint(ctx, s.minter, owner, s.reward); err != nil {
		s.log(ctx, "reward mint failed", "owner", owner.Hex(), "error", err)
		return
	}
	if err := s.claims.MarkClaimed(ctx, owner, requester); err != nil {
		// The mint went through; a lost claim mark risks one extra mint on
		// the next access, which beats losing the reward entirely.
		s.log(ctx, "reward claim mark failed", "owner", owner.Hex(), "error", err)
	}

	s.emit(ctx, audit.Event{
		Action:       audit.ActionRewardDistributed,
		Owner:        owner,
		Counterparty: requester,
		Amount:       s.reward.String(),
	})
	if s.metrics != nil {
		s.metrics.RewardsMinted.Inc()
	}
	s.log(ctx, "reward distributed",
		"owner", owner.Hex(),
		"requester", requester.Hex(),
		"amount", s.reward.String(),
	)
}

func (s *Service) deny(ctx context.Context, span trace.Span, requester, owner common.Address, field, reason string) {
	s.emit(ctx, audit.Event{
		Action:       audit.ActionDataAccessDenied,
		Owner:        owner,
		Counterparty: requester,
		Field:        field,
		Reason:       reason,
	})
	if s.metrics != nil {
		s.metrics.AccessDenied.WithLabelValues(reason).Inc()
	}
	span.SetAttributes(
		attribute.Bool("granted", false),
		attribute.String("deny_reason", reason),
	)
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
