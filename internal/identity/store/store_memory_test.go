package store

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credshare/internal/identity/models"
	"credshare/internal/sentinel"
)

func TestCreateThenFind(t *testing.T) {
	s := New()
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	ident, err := models.NewIdentity(owner, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.Create(context.Background(), ident))

	found, err := s.Find(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, owner, found.Owner)
	assert.Equal(t, models.TierNone, found.CreditTier)
}

func TestCreateDuplicateReturnsConflict(t *testing.T) {
	s := New()
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	ident, err := models.NewIdentity(owner, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.Create(context.Background(), ident))
	assert.ErrorIs(t, s.Create(context.Background(), ident), sentinel.ErrConflict)
}

func TestFindUnknownReturnsNotFound(t *testing.T) {
	s := New()
	_, err := s.Find(context.Background(), common.HexToAddress("0x2222222222222222222222222222222222222222"))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestUpdateUnknownReturnsNotFound(t *testing.T) {
	s := New()
	ident, err := models.NewIdentity(common.HexToAddress("0x3333333333333333333333333333333333333333"), time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, s.Update(context.Background(), ident), sentinel.ErrNotFound)
}

func TestFindReturnsCopy(t *testing.T) {
	s := New()
	owner := common.HexToAddress("0x4444444444444444444444444444444444444444")
	ident, err := models.NewIdentity(owner, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), ident))

	found, err := s.Find(context.Background(), owner)
	require.NoError(t, err)
	found.CreditTier = models.TierHighPlatinum

	again, err := s.Find(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, models.TierNone, again.CreditTier, "mutating a returned record must not leak into the store")
}
