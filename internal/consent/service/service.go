package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/audit"
	"credshare/internal/consent/models"
	"credshare/internal/consent/store"
	"credshare/internal/platform/metrics"
	"credshare/internal/sentinel"
	id "credshare/pkg/domain"
	dErrors "credshare/pkg/domain-errors"
	platformsync "credshare/pkg/platform/sync"
)

// Store defines the persistence interface for consent records.
type Store interface {
	Save(ctx context.Context, record *models.Record) error
	Find(ctx context.Context, owner common.Address, consentID id.ConsentID) (*models.Record, error)
	ListByOwner(ctx context.Context, owner common.Address) ([]*models.Record, error)
}

var _ Store = (*store.InMemoryStore)(nil)

// Service owns the consent lifecycle for each (owner, requester) pair.
// Mutations are owner-authorized only; a record is never deleted, revocation
// is a status value.
type Service struct {
	store   Store
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

func NewService(store Store, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:   store,
		auditor: auditor,
		logger:  logger,
		locks:   platformsync.NewShardedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create writes a consent record for (owner, requester) in StatusRequested,
// overwriting any prior record for the pair. Only the owner may create their
// own consents.
func (s *Service) Create(ctx context.Context, caller, requester, owner common.Address, startDate, endDate time.Time) (*models.Record, error) {
	if caller != owner {
		return nil, dErrors.New(dErrors.CodeNotOwner, "only the owner may create consent")
	}
	record, err := models.NewRecord(owner, requester, startDate, endDate, time.Now())
	if err != nil {
		return nil, err
	}

	s.locks.Lock(owner.Hex())
	defer s.locks.Unlock(owner.Hex())

	if err := s.store.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent")
	}

	s.emit(ctx, audit.Event{
		Action:       audit.ActionConsentCreated,
		Owner:        owner,
		Counterparty: requester,
		ConsentID:    record.ID.String(),
		Status:       record.Status.String(),
	})
	if s.metrics != nil {
		s.metrics.ConsentsCreated.Inc()
	}
	s.log(ctx, "consent created",
		"owner", owner.Hex(),
		"requester", requester.Hex(),
		"consent_id", record.ID.String(),
	)
	return record, nil
}

// ChangeStatus unconditionally sets the stored status. There is no transition
// table: any valid status may follow any other, which is what lets an owner
// re-grant after revocation. Time never drives this method; StatusExpired is
// stored only when an owner sets it explicitly.
func (s *Service) ChangeStatus(ctx context.Context, caller, owner common.Address, consentID id.ConsentID, newStatus models.Status) (*models.Record, error) {
	if caller != owner {
		return nil, dErrors.New(dErrors.CodeNotOwner, "only the owner may change consent status")
	}
	if !newStatus.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown consent status")
	}

	s.locks.Lock(owner.Hex())
	defer s.locks.Unlock(owner.Hex())

	record, err := s.changeStatusLocked(ctx, owner, consentID, newStatus)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CreateAndGrant creates the pair's record and immediately grants it, both
// steps under the owner's lock. Mirrors the common wallet flow where an owner
// approves a request in one gesture.
func (s *Service) CreateAndGrant(ctx context.Context, caller, requester, owner common.Address, startDate, endDate time.Time) (*models.Record, error) {
	if caller != owner {
		return nil, dErrors.New(dErrors.CodeNotOwner, "only the owner may create consent")
	}
	record, err := models.NewRecord(owner, requester, startDate, endDate, time.Now())
	if err != nil {
		return nil, err
	}

	s.locks.Lock(owner.Hex())
	defer s.locks.Unlock(owner.Hex())

	if err := s.store.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent")
	}
	s.emit(ctx, audit.Event{
		Action:       audit.ActionConsentCreated,
		Owner:        owner,
		Counterparty: requester,
		ConsentID:    record.ID.String(),
		Status:       record.Status.String(),
	})
	if s.metrics != nil {
		s.metrics.ConsentsCreated.Inc()
	}

	return s.changeStatusLocked(ctx, owner, record.ID, models.StatusGranted)
}

func (s *Service) changeStatusLocked(ctx context.Context, owner common.Address, consentID id.ConsentID, newStatus models.Status) (*models.Record, error) {
	record, err := s.store.Find(ctx, owner, consentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidConsent, "consent was never created")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
	}
	if record.Status == models.StatusNone {
		// A record zeroed by an explicit StatusNone write reads as never
		// created, matching the original storage model.
		return nil, dErrors.New(dErrors.CodeInvalidConsent, "consent was never created")
	}

	record.Status = newStatus
	record.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update consent")
	}

	s.emit(ctx, audit.Event{
		Action:       audit.ActionConsentStatusChanged,
		Owner:        owner,
		Counterparty: record.Requester,
		ConsentID:    consentID.String(),
		Status:       newStatus.String(),
	})
	if s.metrics != nil {
		s.metrics.ConsentStatusChanges.WithLabelValues(newStatus.String()).Inc()
	}
	s.log(ctx, "consent status changed",
		"owner", owner.Hex(),
		"consent_id", consentID.String(),
		"status", newStatus.String(),
	)
	return record, nil
}

// IsGranted reports whether the stored status for (owner, requester) is
// Granted. No date check happens here: a Granted record past its EndDate
// still reads as granted. A pair with no record reads as not granted.
func (s *Service) IsGranted(ctx context.Context, owner, requester common.Address) (bool, error) {
	if owner == (common.Address{}) || requester == (common.Address{}) {
		return false, dErrors.New(dErrors.CodeInvalidAddress, "owner and requester addresses required")
	}

	record, err := s.store.Find(ctx, owner, id.DeriveConsentID(requester, owner))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.countCheck(false)
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
	}

	granted := record.IsGranted()
	s.countCheck(granted)
	return granted, nil
}

// Status returns the pair's record with its derived lifecycle label.
func (s *Service) Status(ctx context.Context, owner, requester common.Address) (*models.Record, models.Status, error) {
	if owner == (common.Address{}) || requester == (common.Address{}) {
		return nil, models.StatusNone, dErrors.New(dErrors.CodeInvalidAddress, "owner and requester addresses required")
	}
	record, err := s.store.Find(ctx, owner, id.DeriveConsentID(requester, owner))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.StatusNone, dErrors.New(dErrors.CodeInvalidConsent, "consent was never created")
		}
		return nil, models.StatusNone, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
	}
	return record, record.ComputeStatus(time.Now()), nil
}

// List returns all consent records for the owner.
func (s *Service) List(ctx context.Context, owner common.Address) ([]*models.Record, error) {
	if owner == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "owner address required")
	}
	records, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list consents")
	}
	return records, nil
}

func (s *Service) countCheck(granted bool) {
	if s.metrics == nil {
		return
	}
	if granted {
		s.metrics.ConsentChecksGranted.Inc()
	} else {
		s.metrics.ConsentChecksRejected.Inc()
	}
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
