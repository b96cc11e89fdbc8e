package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"credshare/internal/gateway/service/mocks"
	identitymodels "credshare/internal/identity/models"
)

// Mock-backed tests for the reward bookkeeping edge cases that the in-memory
// wiring cannot force: collaborator failures mid-distribution.
type RewardSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockIdentities *mocks.MockIdentityReader
	mockConsents   *mocks.MockConsentChecker
	mockLedger     *mocks.MockRewardMinter
	mockClaims     *mocks.MockClaimStore
	gateway        *Service

	minter common.Address
	alice  common.Address
	bob    common.Address
	reward *big.Int
}

func (s *RewardSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockIdentities = mocks.NewMockIdentityReader(s.ctrl)
	s.mockConsents = mocks.NewMockConsentChecker(s.ctrl)
	s.mockLedger = mocks.NewMockRewardMinter(s.ctrl)
	s.mockClaims = mocks.NewMockClaimStore(s.ctrl)

	s.minter = common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	s.alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	s.bob = common.HexToAddress("0x2222222222222222222222222222222222222222")
	s.reward = big.NewInt(10)

	s.gateway = NewService(s.mockIdentities, s.mockConsents, s.mockLedger, s.mockClaims, s.minter, s.reward, nil, nil)
}

func TestRewardSuite(t *testing.T) {
	suite.Run(t, new(RewardSuite))
}

func (s *RewardSuite) expectGrantedRead() {
	s.mockIdentities.EXPECT().CreditTier(gomock.Any(), s.alice).Return(identitymodels.TierMidGold, nil)
	s.mockConsents.EXPECT().IsGranted(gomock.Any(), s.alice, s.bob).Return(true, nil)
}

// A failed mint must not mark the claim, so the reward stays retryable, and
// must not fail the read.
func (s *RewardSuite) TestMintFailureLeavesClaimUnset() {
	s.expectGrantedRead()
	s.mockClaims.EXPECT().Claimed(gomock.Any(), s.alice, s.bob).Return(false, nil)
	s.mockLedger.EXPECT().Mint(gomock.Any(), s.minter, s.alice, s.reward).Return(errors.New("ledger down"))

	tier, err := s.gateway.GetCreditTier(context.Background(), s.bob, s.alice)
	s.Require().NoError(err)
	s.Equal(identitymodels.TierMidGold, tier)
}

func (s *RewardSuite) TestClaimedPairSkipsMint() {
	s.expectGrantedRead()
	s.mockClaims.EXPECT().Claimed(gomock.Any(), s.alice, s.bob).Return(true, nil)

	_, err := s.gateway.GetCreditTier(context.Background(), s.bob, s.alice)
	s.Require().NoError(err)
}

func (s *RewardSuite) TestClaimLookupFailureDoesNotFailRead() {
	s.expectGrantedRead()
	s.mockClaims.EXPECT().Claimed(gomock.Any(), s.alice, s.bob).Return(false, errors.New("store down"))

	_, err := s.gateway.GetCreditTier(context.Background(), s.bob, s.alice)
	s.Require().NoError(err)
}

func (s *RewardSuite) TestSuccessfulMintMarksClaim() {
	s.expectGrantedRead()
	s.mockClaims.EXPECT().Claimed(gomock.Any(), s.alice, s.bob).Return(false, nil)
	s.mockLedger.EXPECT().Mint(gomock.Any(), s.minter, s.alice, s.reward).Return(nil)
	s.mockClaims.EXPECT().MarkClaimed(gomock.Any(), s.alice, s.bob).Return(nil)

	_, err := s.gateway.GetCreditTier(context.Background(), s.bob, s.alice)
	s.Require().NoError(err)
}

func (s *RewardSuite) TestConsentLookupErrorPropagates() {
	s.mockIdentities.EXPECT().IncomeBand(gomock.Any(), s.alice).Return(identitymodels.BandUpto150k, nil)
	s.mockConsents.EXPECT().IsGranted(gomock.Any(), s.alice, s.bob).Return(false, errors.New("store down"))

	_, err := s.gateway.GetIncomeBand(context.Background(), s.bob, s.alice)
	s.Require().Error(err)
}
