package models

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credshare/pkg/domain"
	dErrors "credshare/pkg/domain-errors"
)

var (
	owner     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	requester = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func TestStatusOrdinalsAreWireStable(t *testing.T) {
	assert.Equal(t, Status(0), StatusNone)
	assert.Equal(t, Status(1), StatusGranted)
	assert.Equal(t, Status(2), StatusRequested)
	assert.Equal(t, Status(3), StatusRevoked)
	assert.Equal(t, Status(4), StatusExpired)
}

func TestNewRecordStartsRequested(t *testing.T) {
	now := time.Now()
	record, err := NewRecord(owner, requester, now, now.Add(30*24*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, record.Status)
	assert.Equal(t, id.DeriveConsentID(requester, owner), record.ID)
}

func TestNewRecordValidatesWindow(t *testing.T) {
	now := time.Now()
	_, err := NewRecord(owner, requester, now, now, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), "equal dates rejected")

	_, err = NewRecord(owner, requester, now.Add(time.Hour), now, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), "reversed dates rejected")

	_, err = NewRecord(owner, common.Address{}, now, now.Add(time.Hour), now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAddress))
}

func TestIsGrantedIgnoresExpiry(t *testing.T) {
	now := time.Now()
	record, err := NewRecord(owner, requester, now.Add(-2*time.Hour), now.Add(-time.Hour), now)
	require.NoError(t, err)
	record.Status = StatusGranted

	// Stored status decides, even past EndDate.
	assert.True(t, record.IsGranted())
	assert.Equal(t, StatusExpired, record.ComputeStatus(now), "expiry exists only as a derived label")
}

func TestComputeStatusPassesThroughNonGranted(t *testing.T) {
	now := time.Now()
	record, err := NewRecord(owner, requester, now.Add(-2*time.Hour), now.Add(-time.Hour), now)
	require.NoError(t, err)

	record.Status = StatusRevoked
	assert.Equal(t, StatusRevoked, record.ComputeStatus(now), "only Granted records derive Expired")
}
