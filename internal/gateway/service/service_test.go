package service

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"credshare/internal/audit"
	consentmodels "credshare/internal/consent/models"
	consentservice "credshare/internal/consent/service"
	consentstore "credshare/internal/consent/store"
	"credshare/internal/gateway/store"
	identitymodels "credshare/internal/identity/models"
	identityservice "credshare/internal/identity/service"
	identitystore "credshare/internal/identity/store"
	ledgerservice "credshare/internal/ledger/service"
	ledgerstore "credshare/internal/ledger/store"
	dErrors "credshare/pkg/domain-errors"
)

// The suite wires real in-memory services end to end; only the HTTP layer is
// absent.
type GatewaySuite struct {
	suite.Suite
	gateway    *Service
	identities *identityservice.Service
	consents   *consentservice.Service
	ledger     *ledgerservice.Service
	auditStore *audit.InMemoryStore

	authority common.Address
	minter    common.Address
	alice     common.Address
	bob       common.Address
	reward    *big.Int
}

func (s *GatewaySuite) SetupTest() {
	s.authority = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	s.minter = common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	s.alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	s.bob = common.HexToAddress("0x2222222222222222222222222222222222222222")
	s.reward = big.NewInt(10)

	s.auditStore = audit.NewInMemoryStore()
	auditor := audit.NewPublisher(s.auditStore)

	s.identities = identityservice.NewService(identitystore.New(), s.authority, auditor, nil)
	s.consents = consentservice.NewService(consentstore.New(), auditor, nil)

	var err error
	s.ledger, err = ledgerservice.NewService(ledgerstore.New(), s.minter, auditor, nil)
	s.Require().NoError(err)

	s.gateway = NewService(s.identities, s.consents, s.ledger, store.New(), s.minter, s.reward, auditor, nil)
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) registerAndClassify() {
	ctx := context.Background()
	_, err := s.identities.Register(ctx, s.alice)
	s.Require().NoError(err)
	_, err = s.identities.UpdateProfile(ctx, s.authority, s.alice, identitymodels.TierMidGold, identitymodels.BandUpto150k)
	s.Require().NoError(err)
}

func (s *GatewaySuite) grantConsent() {
	ctx := context.Background()
	start := time.Now().Add(-time.Minute)
	_, err := s.consents.CreateAndGrant(ctx, s.alice, s.bob, s.alice, start, start.Add(30*24*time.Hour))
	s.Require().NoError(err)
}

func (s *GatewaySuite) TestDeniesUnregisteredOwner() {
	_, err := s.gateway.GetCreditTier(context.Background(), s.bob, s.alice)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUserNotRegistered))

	events, storeErr := s.auditStore.ListByOwner(context.Background(), s.alice)
	s.Require().NoError(storeErr)
	s.Require().NotEmpty(events)
	last := events[len(events)-1]
	s.Equal(audit.ActionDataAccessDenied, last.Action)
	s.Equal(audit.ReasonUserNotRegistered, last.Reason)
}

func (s *GatewaySuite) TestDeniesWithoutConsent() {
	s.registerAndClassify()

	_, err := s.gateway.GetCreditTier(context.Background(), s.bob, s.alice)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingConsent))

	events, storeErr := s.auditStore.ListByOwner(context.Background(), s.alice)
	s.Require().NoError(storeErr)
	last := events[len(events)-1]
	s.Equal(audit.ActionDataAccessDenied, last.Action)
	s.Equal(audit.ReasonNoValidConsent, last.Reason)
}

// The full journey: register, classify, grant, read both fields, revoke.
// The reward is minted exactly once per pair no matter how many fields the
// requester reads.
func (s *GatewaySuite) TestAccessLifecycle() {
	ctx := context.Background()
	s.registerAndClassify()
	s.grantConsent()

	tier, err := s.gateway.GetCreditTier(ctx, s.bob, s.alice)
	s.Require().NoError(err)
	s.Equal(identitymodels.TierMidGold, tier)

	balance, err := s.ledger.BalanceOf(ctx, s.alice)
	s.Require().NoError(err)
	s.Zero(balance.Cmp(s.reward))

	band, err := s.gateway.GetIncomeBand(ctx, s.bob, s.alice)
	s.Require().NoError(err)
	s.Equal(identitymodels.BandUpto150k, band)

	// Second field read mints nothing further.
	balance, err = s.ledger.BalanceOf(ctx, s.alice)
	s.Require().NoError(err)
	s.Zero(balance.Cmp(s.reward))

	records, err := s.consents.List(ctx, s.alice)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	_, err = s.consents.ChangeStatus(ctx, s.alice, s.alice, records[0].ID, consentmodels.StatusRevoked)
	s.Require().NoError(err)

	_, err = s.gateway.GetCreditTier(ctx, s.bob, s.alice)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingConsent))
}

func (s *GatewaySuite) TestConcurrentFirstAccessMintsOnce() {
	ctx := context.Background()
	s.registerAndClassify()
	s.grantConsent()

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := s.gateway.GetCreditTier(ctx, s.bob, s.alice)
			return err
		})
		g.Go(func() error {
			_, err := s.gateway.GetIncomeBand(ctx, s.bob, s.alice)
			return err
		})
	}
	s.Require().NoError(g.Wait())

	balance, err := s.ledger.BalanceOf(ctx, s.alice)
	s.Require().NoError(err)
	s.Zero(balance.Cmp(s.reward))

	supply, err := s.ledger.TotalSupply(ctx)
	s.Require().NoError(err)
	s.Zero(supply.Cmp(s.reward))
}

func (s *GatewaySuite) TestDistinctRequestersEachEarnTheOwnerAReward() {
	ctx := context.Background()
	s.registerAndClassify()
	s.grantConsent()

	carol := common.HexToAddress("0x3333333333333333333333333333333333333333")
	start := time.Now().Add(-time.Minute)
	_, err := s.consents.CreateAndGrant(ctx, s.alice, carol, s.alice, start, start.Add(time.Hour))
	s.Require().NoError(err)

	_, err = s.gateway.GetCreditTier(ctx, s.bob, s.alice)
	s.Require().NoError(err)
	_, err = s.gateway.GetCreditTier(ctx, carol, s.alice)
	s.Require().NoError(err)

	balance, err := s.ledger.BalanceOf(ctx, s.alice)
	s.Require().NoError(err)
	s.Zero(balance.Cmp(new(big.Int).Mul(s.reward, big.NewInt(2))))
}

func (s *GatewaySuite) TestZeroRewardSkipsLedger() {
	ctx := context.Background()
	s.registerAndClassify()
	s.grantConsent()

	gateway := NewService(s.identities, s.consents, s.ledger, store.New(), s.minter, nil, nil, nil)
	_, err := gateway.GetCreditTier(ctx, s.bob, s.alice)
	s.Require().NoError(err)

	balance, err := s.ledger.BalanceOf(ctx, s.alice)
	s.Require().NoError(err)
	s.Zero(balance.Sign())
}
