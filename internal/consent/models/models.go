package models

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	id "credshare/pkg/domain"
	dErrors "credshare/pkg/domain-errors"
)

// Status is the stored consent state. Ordinals are wire-stable.
//
// StatusExpired is special: it is stored only when an owner explicitly sets
// it. Time-based expiry is never written back; readers derive it with
// ComputeStatus.
type Status uint8

const (
	StatusNone Status = iota
	StatusGranted
	StatusRequested
	StatusRevoked
	StatusExpired
)

var statusNames = [...]string{"None", "Granted", "Requested", "Revoked", "Expired"}

func (st Status) IsValid() bool { return int(st) < len(statusNames) }

func (st Status) String() string {
	if !st.IsValid() {
		return "Unknown"
	}
	return statusNames[st]
}

// ParseStatus maps a status label back to its ordinal, ignoring case.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if strings.EqualFold(name, s) {
			return Status(i), nil
		}
	}
	return StatusNone, dErrors.New(dErrors.CodeInvalidInput, "unknown consent status")
}

// Record captures an owner's consent decision for one requester.
//
// # Scoping Invariant
//
// A ConsentID is ALWAYS a one-way hash of (requester, owner), so each pair
// holds at most one record: creating consent for the same pair overwrites,
// it never duplicates. All store queries include the owner so a requester
// cannot reach another owner's record by guessing IDs.
type Record struct {
	ID        id.ConsentID
	Owner     common.Address
	Requester common.Address
	Status    Status
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord creates a Record with domain invariant checks. Fresh records
// start in StatusRequested.
func NewRecord(owner, requester common.Address, startDate, endDate, now time.Time) (*Record, error) {
	if owner == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "owner address required")
	}
	if requester == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "requester address required")
	}
	if !startDate.Before(endDate) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "start date must precede end date")
	}
	return &Record{
		ID:        id.DeriveConsentID(requester, owner),
		Owner:     owner,
		Requester: requester,
		Status:    StatusRequested,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsGranted reports the stored grant decision. Deliberately no date check:
// a record past its EndDate whose stored status is still Granted reads as
// granted. Expiry enforcement is the reader's concern via ComputeStatus.
func (r Record) IsGranted() bool {
	return r.Status == StatusGranted
}

// ComputeStatus reports the consent lifecycle state at the provided time.
// It is the only place expiry exists: a Granted record past EndDate reads
// as Expired here while the stored status stays Granted.
func (r Record) ComputeStatus(now time.Time) Status {
	if r.Status == StatusGranted && now.After(r.EndDate) {
		return StatusExpired
	}
	return r.Status
}
