package service

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"credshare/internal/consent/models"
	"credshare/internal/consent/store"
	id "credshare/pkg/domain"
	dErrors "credshare/pkg/domain-errors"
)

type ConsentServiceSuite struct {
	suite.Suite
	svc       *Service
	owner     common.Address
	requester common.Address
}

func (s *ConsentServiceSuite) SetupTest() {
	s.svc = NewService(store.New(), nil, nil)
	s.owner = common.HexToAddress("0x1111111111111111111111111111111111111111")
	s.requester = common.HexToAddress("0x2222222222222222222222222222222222222222")
}

func TestConsentServiceSuite(t *testing.T) {
	suite.Run(t, new(ConsentServiceSuite))
}

func (s *ConsentServiceSuite) window() (time.Time, time.Time) {
	start := time.Now().Add(-time.Hour)
	return start, start.Add(30 * 24 * time.Hour)
}

func (s *ConsentServiceSuite) TestCreateStartsRequested() {
	start, end := s.window()
	record, err := s.svc.Create(context.Background(), s.owner, s.requester, s.owner, start, end)
	s.Require().NoError(err)
	s.Equal(models.StatusRequested, record.Status)
	s.Equal(id.DeriveConsentID(s.requester, s.owner), record.ID)

	granted, err := s.svc.IsGranted(context.Background(), s.owner, s.requester)
	s.Require().NoError(err)
	s.False(granted)
}

func (s *ConsentServiceSuite) TestCreateRejectsNonOwnerCaller() {
	start, end := s.window()
	_, err := s.svc.Create(context.Background(), s.requester, s.requester, s.owner, start, end)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
}

func (s *ConsentServiceSuite) TestCreateTwiceOverwritesSameRecord() {
	start, end := s.window()
	first, err := s.svc.Create(context.Background(), s.owner, s.requester, s.owner, start, end)
	s.Require().NoError(err)

	_, err = s.svc.ChangeStatus(context.Background(), s.owner, s.owner, first.ID, models.StatusGranted)
	s.Require().NoError(err)

	second, err := s.svc.Create(context.Background(), s.owner, s.requester, s.owner, start, end.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	records, err := s.svc.List(context.Background(), s.owner)
	s.Require().NoError(err)
	s.Len(records, 1)
	s.Equal(models.StatusRequested, records[0].Status)
}

func (s *ConsentServiceSuite) TestGrantThenRevoke() {
	ctx := context.Background()
	start, end := s.window()
	record, err := s.svc.Create(ctx, s.owner, s.requester, s.owner, start, end)
	s.Require().NoError(err)

	_, err = s.svc.ChangeStatus(ctx, s.owner, s.owner, record.ID, models.StatusGranted)
	s.Require().NoError(err)
	granted, err := s.svc.IsGranted(ctx, s.owner, s.requester)
	s.Require().NoError(err)
	s.True(granted)

	_, err = s.svc.ChangeStatus(ctx, s.owner, s.owner, record.ID, models.StatusRevoked)
	s.Require().NoError(err)
	granted, err = s.svc.IsGranted(ctx, s.owner, s.requester)
	s.Require().NoError(err)
	s.False(granted)
}

func (s *ConsentServiceSuite) TestRevokedCanBeRegranted() {
	ctx := context.Background()
	start, end := s.window()
	record, err := s.svc.Create(ctx, s.owner, s.requester, s.owner, start, end)
	s.Require().NoError(err)

	for _, st := range []models.Status{models.StatusGranted, models.StatusRevoked, models.StatusGranted} {
		_, err = s.svc.ChangeStatus(ctx, s.owner, s.owner, record.ID, st)
		s.Require().NoError(err)
	}
	granted, err := s.svc.IsGranted(ctx, s.owner, s.requester)
	s.Require().NoError(err)
	s.True(granted)
}

func (s *ConsentServiceSuite) TestChangeStatusRejectsNonOwner() {
	ctx := context.Background()
	start, end := s.window()
	record, err := s.svc.Create(ctx, s.owner, s.requester, s.owner, start, end)
	s.Require().NoError(err)

	_, err = s.svc.ChangeStatus(ctx, s.requester, s.owner, record.ID, models.StatusGranted)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotOwner))
}

func (s *ConsentServiceSuite) TestChangeStatusUnknownConsent() {
	_, err := s.svc.ChangeStatus(context.Background(), s.owner, s.owner, id.DeriveConsentID(s.requester, s.owner), models.StatusGranted)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidConsent))
}

func (s *ConsentServiceSuite) TestChangeStatusRejectsUnknownValue() {
	ctx := context.Background()
	start, end := s.window()
	record, err := s.svc.Create(ctx, s.owner, s.requester, s.owner, start, end)
	s.Require().NoError(err)

	_, err = s.svc.ChangeStatus(ctx, s.owner, s.owner, record.ID, models.Status(99))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// Stored status alone decides IsGranted. A record granted in the past with an
// EndDate already behind us still answers true until the owner changes it.
func (s *ConsentServiceSuite) TestIsGrantedIgnoresEndDate() {
	ctx := context.Background()
	start := time.Now().Add(-48 * time.Hour)
	end := time.Now().Add(-24 * time.Hour)
	record, err := s.svc.Create(ctx, s.owner, s.requester, s.owner, start, end)
	s.Require().NoError(err)

	_, err = s.svc.ChangeStatus(ctx, s.owner, s.owner, record.ID, models.StatusGranted)
	s.Require().NoError(err)

	granted, err := s.svc.IsGranted(ctx, s.owner, s.requester)
	s.Require().NoError(err)
	s.True(granted)

	_, derived, err := s.svc.Status(ctx, s.owner, s.requester)
	s.Require().NoError(err)
	s.Equal(models.StatusExpired, derived)
}

func (s *ConsentServiceSuite) TestIsGrantedZeroAddress() {
	_, err := s.svc.IsGranted(context.Background(), common.Address{}, s.requester)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidAddress))

	_, err = s.svc.IsGranted(context.Background(), s.owner, common.Address{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidAddress))
}

func (s *ConsentServiceSuite) TestIsGrantedUnknownPair() {
	granted, err := s.svc.IsGranted(context.Background(), s.owner, s.requester)
	s.Require().NoError(err)
	s.False(granted)
}

func (s *ConsentServiceSuite) TestCreateAndGrant() {
	start, end := s.window()
	record, err := s.svc.CreateAndGrant(context.Background(), s.owner, s.requester, s.owner, start, end)
	s.Require().NoError(err)
	s.Equal(models.StatusGranted, record.Status)

	granted, err := s.svc.IsGranted(context.Background(), s.owner, s.requester)
	s.Require().NoError(err)
	s.True(granted)
}

func (s *ConsentServiceSuite) TestStatusUnknownPair() {
	_, _, err := s.svc.Status(context.Background(), s.owner, s.requester)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidConsent))
}
