package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/audit"
	"credshare/internal/identity/models"
	"credshare/internal/identity/store"
	"credshare/internal/platform/metrics"
	"credshare/internal/sentinel"
	id "credshare/pkg/domain"
	dErrors "credshare/pkg/domain-errors"
	"credshare/pkg/ownership"
	platformsync "credshare/pkg/platform/sync"
)

// Store defines the persistence interface for identity records.
type Store interface {
	Create(ctx context.Context, identity *models.Identity) error
	Find(ctx context.Context, owner common.Address) (*models.Identity, error)
	Update(ctx context.Context, identity *models.Identity) error
}

var _ Store = (*store.InMemoryStore)(nil)

// Service owns the per-owner identity lifecycle: one registration, then
// independently repeatable pointer and classification updates. Classification
// writes are restricted to the single trusted authority.
type Service struct {
	store     Store
	authority common.Address
	auditor   *audit.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	locks     *platformsync.ShardedMutex
}

type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, authority common.Address, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:     store,
		authority: authority,
		auditor:   auditor,
		logger:    logger,
		locks:     platformsync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register creates an Identity for the caller with both classification fields
// unset and an empty data pointer. A second registration fails and leaves the
// first record untouched.
func (s *Service) Register(ctx context.Context, caller common.Address) (*models.Identity, error) {
	record, err := models.NewIdentity(caller, time.Now())
	if err != nil {
		return nil, err
	}

	s.locks.Lock(caller.Hex())
	defer s.locks.Unlock(caller.Hex())

	if err := s.store.Create(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeAlreadyRegistered, "identity already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create identity")
	}

	s.emit(ctx, audit.Event{
		Action: audit.ActionIdentityRegistered,
		Owner:  caller,
	})
	if s.metrics != nil {
		s.metrics.IdentitiesRegistered.Inc()
	}
	s.log(ctx, "identity registered", "owner", caller.Hex())
	return record, nil
}

// UpdateDataPointer overwrites the caller's off-chain integrity pointer,
// even when the value is unchanged, and re-emits the profile-updated event
// with both classification fields so observers get a consistent snapshot.
func (s *Service) UpdateDataPointer(ctx context.Context, caller common.Address, pointer id.DataPointer) (*models.Identity, error) {
	s.locks.Lock(caller.Hex())
	defer s.locks.Unlock(caller.Hex())

	record, err := s.store.Find(ctx, caller)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotRegistered, "identity not registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read identity")
	}

	record.DataPointer = pointer
	record.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update identity")
	}

	s.emitProfileUpdated(ctx, record)
	if s.metrics != nil {
		s.metrics.ProfileUpdates.WithLabelValues("owner").Inc()
	}
	return record, nil
}

// UpdateProfile overwrites both classification fields atomically. Only the
// configured authority may call it.
func (s *Service) UpdateProfile(ctx context.Context, caller, owner common.Address, tier models.CreditTier, band models.IncomeBand) (*models.Identity, error) {
	if caller != s.authority || s.authority == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeNotValidator, "caller is not the classification authority")
	}
	if !tier.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown credit tier")
	}
	if !band.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown income band")
	}

	s.locks.Lock(owner.Hex())
	defer s.locks.Unlock(owner.Hex())

	record, err := s.store.Find(ctx, owner)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotRegistered, "identity not registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read identity")
	}

	record.CreditTier = tier
	record.IncomeBand = band
	record.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update identity")
	}

	s.emitProfileUpdated(ctx, record)
	if s.metrics != nil {
		s.metrics.ProfileUpdates.WithLabelValues("authority").Inc()
	}
	s.log(ctx, "profile updated",
		"owner", owner.Hex(),
		"credit_tier", tier.String(),
		"income_band", band.String(),
	)
	return record, nil
}

// CreditTier returns the owner's credit tier.
func (s *Service) CreditTier(ctx context.Context, owner common.Address) (models.CreditTier, error) {
	record, err := s.find(ctx, owner)
	if err != nil {
		return models.TierNone, err
	}
	return record.CreditTier, nil
}

// IncomeBand returns the owner's income band.
func (s *Service) IncomeBand(ctx context.Context, owner common.Address) (models.IncomeBand, error) {
	record, err := s.find(ctx, owner)
	if err != nil {
		return models.BandNone, err
	}
	return record.IncomeBand, nil
}

// Identity returns the full record.
func (s *Service) Identity(ctx context.Context, owner common.Address) (*models.Identity, error) {
	return s.find(ctx, owner)
}

// VerifyOwnership is the stateless signature check. It reads and writes no
// state and is never consulted by the access gateway.
func (s *Service) VerifyOwnership(claimed common.Address, message, signature []byte) (bool, error) {
	return ownership.Verify(claimed, message, signature)
}

func (s *Service) find(ctx context.Context, owner common.Address) (*models.Identity, error) {
	record, err := s.store.Find(ctx, owner)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotRegistered, "identity not registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read identity")
	}
	return record, nil
}

// emitProfileUpdated publishes the uniform profile snapshot used for both
// pointer and classification changes.
func (s *Service) emitProfileUpdated(ctx context.Context, record *models.Identity) {
	s.emit(ctx, audit.Event{
		Action:     audit.ActionProfileUpdated,
		Owner:      record.Owner,
		CreditTier: record.CreditTier.String(),
		IncomeBand: record.IncomeBand.String(),
	})
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
