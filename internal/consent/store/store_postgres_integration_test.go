//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"credshare/internal/consent/models"
	"credshare/internal/consent/store"
	"credshare/internal/sentinel"
	id "credshare/pkg/domain"
	"credshare/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "consents")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newRecord(owner, requester common.Address) *models.Record {
	now := time.Now().UTC()
	record, err := models.NewRecord(owner, requester, now, now.Add(30*24*time.Hour), now)
	s.Require().NoError(err)
	return record
}

func (s *PostgresStoreSuite) TestSaveFindRoundTrip() {
	ctx := context.Background()
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	requester := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	record := s.newRecord(owner, requester)
	s.Require().NoError(s.store.Save(ctx, record))

	found, err := s.store.Find(ctx, owner, record.ID)
	s.Require().NoError(err)
	s.Equal(record.ID, found.ID)
	s.Equal(owner, found.Owner)
	s.Equal(requester, found.Requester)
	s.Equal(models.StatusRequested, found.Status)
	s.WithinDuration(record.EndDate, found.EndDate, time.Second)
}

func (s *PostgresStoreSuite) TestSaveUpsertsExistingPair() {
	ctx := context.Background()
	owner := common.HexToAddress("0x2222222222222222222222222222222222222222")
	requester := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	record := s.newRecord(owner, requester)
	s.Require().NoError(s.store.Save(ctx, record))

	record.Status = models.StatusGranted
	record.EndDate = record.EndDate.Add(24 * time.Hour)
	record.UpdatedAt = time.Now().UTC()
	s.Require().NoError(s.store.Save(ctx, record))

	records, err := s.store.ListByOwner(ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(models.StatusGranted, records[0].Status)
	s.WithinDuration(record.EndDate, records[0].EndDate, time.Second)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	owner := common.HexToAddress("0x3333333333333333333333333333333333333333")
	requester := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	_, err := s.store.Find(context.Background(), owner, id.DeriveConsentID(requester, owner))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListIsScopedToOwner() {
	ctx := context.Background()
	alice := common.HexToAddress("0x4444444444444444444444444444444444444444")
	bob := common.HexToAddress("0x5555555555555555555555555555555555555555")

	for _, requester := range []common.Address{
		common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd"),
		common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"),
	} {
		s.Require().NoError(s.store.Save(ctx, s.newRecord(alice, requester)))
	}
	s.Require().NoError(s.store.Save(ctx, s.newRecord(bob, common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff"))))

	aliceRecords, err := s.store.ListByOwner(ctx, alice)
	s.Require().NoError(err)
	s.Len(aliceRecords, 2)

	bobRecords, err := s.store.ListByOwner(ctx, bob)
	s.Require().NoError(err)
	s.Len(bobRecords, 1)
	s.Equal(bob, bobRecords[0].Owner)
}
