// Package verification tracks off-ledger identity evidence for an owner: an
// email proven through a short-lived one-time code and a recorded national-ID
// digest. Only SHA-256 digests are stored; the raw code and ID number never
// persist beyond the exchange.
package verification

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/sentinel"
	dErrors "credshare/pkg/domain-errors"
	platformsync "credshare/pkg/platform/sync"
)

const defaultChallengeTTL = 10 * time.Minute

// Challenge is a pending one-time email code.
type Challenge struct {
	Code      string
	ExpiresAt time.Time
}

// Record holds the evidence digests recorded for an owner.
type Record struct {
	Owner          common.Address
	EmailHash      string
	NationalIDHash string
	UpdatedAt      time.Time
}

// IsVerified reports whether both evidence kinds are on record.
func (r *Record) IsVerified() bool {
	return r.EmailHash != "" && r.NationalIDHash != ""
}

// Store is the persistence contract for challenges and evidence records.
// At most one challenge is pending per owner; issuing a new one replaces it.
type Store interface {
	SaveChallenge(ctx context.Context, owner common.Address, challenge *Challenge) error
	FindChallenge(ctx context.Context, owner common.Address) (*Challenge, error)
	DeleteChallenge(ctx context.Context, owner common.Address) error

	Find(ctx context.Context, owner common.Address) (*Record, error)
	SetEmailHash(ctx context.Context, owner common.Address, hash string, now time.Time) error
	SetNationalIDHash(ctx context.Context, owner common.Address, hash string, now time.Time) error
}

// Service issues and checks email challenges and records national-ID digests.
type Service struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	locks  *platformsync.ShardedMutex
	now    func() time.Time
}

type Option func(*Service)

// WithChallengeTTL overrides how long an issued email code stays valid.
func WithChallengeTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:  store,
		ttl:    defaultChallengeTTL,
		logger: logger,
		locks:  platformsync.NewShardedMutex(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// GenerateEmailChallenge issues a fresh six-digit code for the caller,
// replacing any pending one. The code is handed back to the delivery layer;
// it is never stored hashed because the verify step needs the cleartext
// comparison before the digest is derived.
func (s *Service) GenerateEmailChallenge(ctx context.Context, caller common.Address) (*Challenge, error) {
	if caller == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "caller address required")
	}
	code, err := sixDigitCode()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
	}
	challenge := &Challenge{Code: code, ExpiresAt: s.now().Add(s.ttl)}

	s.locks.Lock(caller.Hex())
	defer s.locks.Unlock(caller.Hex())

	if err := s.store.SaveChallenge(ctx, caller, challenge); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save challenge")
	}
	s.log(ctx, "email challenge issued", "owner", caller.Hex(), "expires_at", challenge.ExpiresAt)
	return challenge, nil
}

// VerifyEmailChallenge checks the submitted code against the pending
// challenge. A match records the email digest and consumes the challenge; a
// miss or an expired code leaves the pending challenge in place and reports
// false without error.
func (s *Service) VerifyEmailChallenge(ctx context.Context, caller common.Address, code string) (bool, error) {
	if caller == (common.Address{}) {
		return false, dErrors.New(dErrors.CodeInvalidAddress, "caller address required")
	}

	s.locks.Lock(caller.Hex())
	defer s.locks.Unlock(caller.Hex())

	challenge, err := s.store.FindChallenge(ctx, caller)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read challenge")
	}
	if s.now().After(challenge.ExpiresAt) || code != challenge.Code {
		return false, nil
	}

	if err := s.store.SetEmailHash(ctx, caller, digest(code), s.now()); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record email evidence")
	}
	if err := s.store.DeleteChallenge(ctx, caller); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume challenge")
	}
	s.log(ctx, "email verified", "owner", caller.Hex())
	return true, nil
}

// RecordNationalID stores the digest of the caller's national-ID number and
// returns it.
func (s *Service) RecordNationalID(ctx context.Context, caller common.Address, idNumber string) (string, error) {
	if caller == (common.Address{}) {
		return "", dErrors.New(dErrors.CodeInvalidAddress, "caller address required")
	}
	idNumber = strings.TrimSpace(idNumber)
	if idNumber == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "id number required")
	}
	hash := digest(idNumber)

	s.locks.Lock(caller.Hex())
	defer s.locks.Unlock(caller.Hex())

	if err := s.store.SetNationalIDHash(ctx, caller, hash, s.now()); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to record national id")
	}
	s.log(ctx, "national id recorded", "owner", caller.Hex())
	return hash, nil
}

// IsVerified reports whether both email and national-ID evidence are on
// record for the owner.
func (s *Service) IsVerified(ctx context.Context, owner common.Address) (bool, error) {
	record, err := s.Verification(ctx, owner)
	if err != nil {
		return false, err
	}
	return record.IsVerified(), nil
}

// Verification returns the owner's evidence record. Owners with nothing on
// record get an empty record, not an error.
func (s *Service) Verification(ctx context.Context, owner common.Address) (*Record, error) {
	if owner == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "owner address required")
	}
	record, err := s.store.Find(ctx, owner)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &Record{Owner: owner}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read verification")
	}
	return record, nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func (s *Service) log(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
