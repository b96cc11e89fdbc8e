package models

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "credshare/pkg/domain-errors"
)

func TestCreditTierOrdinalsAreWireStable(t *testing.T) {
	assert.Equal(t, CreditTier(0), TierNone)
	assert.Equal(t, CreditTier(8), TierMidGold)
	assert.Equal(t, CreditTier(12), TierHighPlatinum)
	assert.Equal(t, "MidGold", TierMidGold.String())
	assert.False(t, CreditTier(13).IsValid())
}

func TestIncomeBandOrdinalsAreWireStable(t *testing.T) {
	assert.Equal(t, IncomeBand(0), BandNone)
	assert.Equal(t, IncomeBand(5), BandUpto150k)
	assert.Equal(t, IncomeBand(13), BandMoreThan500k)
	assert.Equal(t, "upto150k", BandUpto150k.String())
	assert.False(t, IncomeBand(14).IsValid())
}

func TestParseRoundTrip(t *testing.T) {
	tier, err := ParseCreditTier("HighPlatinum")
	require.NoError(t, err)
	assert.Equal(t, TierHighPlatinum, tier)

	band, err := ParseIncomeBand("moreThan500k")
	require.NoError(t, err)
	assert.Equal(t, BandMoreThan500k, band)

	_, err = ParseCreditTier("Diamond")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	_, err = ParseIncomeBand("upto1m")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestNewIdentityStartsUnset(t *testing.T) {
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	now := time.Now()

	ident, err := NewIdentity(owner, now)
	require.NoError(t, err)
	assert.Equal(t, TierNone, ident.CreditTier)
	assert.Equal(t, BandNone, ident.IncomeBand)
	assert.True(t, ident.DataPointer.IsZero())

	_, err = NewIdentity(common.Address{}, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAddress))
}
