package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	id "credshare/pkg/domain"
	dErrors "credshare/pkg/domain-errors"
)

// CreditTier is the ordinal credit classification. Ordinal values are
// wire-stable: they match the enum order published by the classification
// authority, with 0 as the explicit unset value.
type CreditTier uint8

const (
	TierNone CreditTier = iota
	TierLowBronze
	TierMidBronze
	TierHighBronze
	TierLowSilver
	TierMidSilver
	TierHighSilver
	TierLowGold
	TierMidGold
	TierHighGold
	TierLowPlatinum
	TierMidPlatinum
	TierHighPlatinum
)

var creditTierNames = [...]string{
	"None",
	"LowBronze",
	"MidBronze",
	"HighBronze",
	"LowSilver",
	"MidSilver",
	"HighSilver",
	"LowGold",
	"MidGold",
	"HighGold",
	"LowPlatinum",
	"MidPlatinum",
	"HighPlatinum",
}

// IncomeBand is the ordinal income classification, 0 unset.
type IncomeBand uint8

const (
	BandNone IncomeBand = iota
	BandUpto25k
	BandUpto50k
	BandUpto75k
	BandUpto100k
	BandUpto150k
	BandUpto200k
	BandUpto250k
	BandUpto300k
	BandUpto350k
	BandUpto400k
	BandUpto450k
	BandUpto500k
	BandMoreThan500k
)

var incomeBandNames = [...]string{
	"None",
	"upto25k",
	"upto50k",
	"upto75k",
	"upto100k",
	"upto150k",
	"upto200k",
	"upto250k",
	"upto300k",
	"upto350k",
	"upto400k",
	"upto450k",
	"upto500k",
	"moreThan500k",
}

func (t CreditTier) IsValid() bool { return int(t) < len(creditTierNames) }
func (b IncomeBand) IsValid() bool { return int(b) < len(incomeBandNames) }

func (t CreditTier) String() string {
	if !t.IsValid() {
		return "Unknown"
	}
	return creditTierNames[t]
}

func (b IncomeBand) String() string {
	if !b.IsValid() {
		return "Unknown"
	}
	return incomeBandNames[b]
}

// ParseCreditTier maps a tier label back to its ordinal.
func ParseCreditTier(s string) (CreditTier, error) {
	for i, name := range creditTierNames {
		if name == s {
			return CreditTier(i), nil
		}
	}
	return TierNone, dErrors.New(dErrors.CodeInvalidInput, "unknown credit tier")
}

// ParseIncomeBand maps a band label back to its ordinal.
func ParseIncomeBand(s string) (IncomeBand, error) {
	for i, name := range incomeBandNames {
		if name == s {
			return IncomeBand(i), nil
		}
	}
	return BandNone, dErrors.New(dErrors.CodeInvalidInput, "unknown income band")
}

// Identity is the minimal per-owner record: classification fields plus an
// off-chain integrity pointer. An Identity exists iff the owner registered;
// existence is a store-presence test, never a sentinel comparison.
type Identity struct {
	Owner        common.Address
	CreditTier   CreditTier
	IncomeBand   IncomeBand
	DataPointer  id.DataPointer
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

// NewIdentity creates a fresh record with both classification fields unset
// and an empty data pointer.
func NewIdentity(owner common.Address, now time.Time) (*Identity, error) {
	if owner == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidAddress, "owner address required")
	}
	return &Identity{
		Owner:        owner,
		CreditTier:   TierNone,
		IncomeBand:   BandNone,
		RegisteredAt: now,
		UpdatedAt:    now,
	}, nil
}
