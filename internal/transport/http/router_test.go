package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"credshare/internal/audit"
	auditHandler "credshare/internal/audit/handler"
	consentHandler "credshare/internal/consent/handler"
	consentService "credshare/internal/consent/service"
	consentStore "credshare/internal/consent/store"
	"credshare/internal/directory"
	directoryHandler "credshare/internal/directory/handler"
	gatewayHandler "credshare/internal/gateway/handler"
	gatewayService "credshare/internal/gateway/service"
	gatewayStore "credshare/internal/gateway/store"
	identityHandler "credshare/internal/identity/handler"
	identityService "credshare/internal/identity/service"
	identityStore "credshare/internal/identity/store"
	ledgerHandler "credshare/internal/ledger/handler"
	ledgerService "credshare/internal/ledger/service"
	ledgerStore "credshare/internal/ledger/store"
	"credshare/internal/platform/middleware"
	"credshare/internal/ratelimit"
	"credshare/internal/verification"
	verificationHandler "credshare/internal/verification/handler"
)

// RouterSuite drives the full HTTP surface against in-memory stores: the
// complete owner/authority/requester journey, token auth included.
type RouterSuite struct {
	suite.Suite
	router http.Handler
	signer *middleware.TokenSigner

	authority common.Address
	minter    common.Address
	alice     common.Address
	bob       common.Address
}

func (s *RouterSuite) SetupTest() {
	s.authority = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	s.minter = common.HexToAddress("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	s.alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	s.bob = common.HexToAddress("0x2222222222222222222222222222222222222222")

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditStore := audit.NewInMemoryStore()
	auditor := audit.NewPublisher(auditStore)

	identities := identityService.NewService(identityStore.New(), s.authority, auditor, log)
	consents := consentService.NewService(consentStore.New(), auditor, log)
	ledger, err := ledgerService.NewService(ledgerStore.New(), s.minter, auditor, log)
	s.Require().NoError(err)
	gateway := gatewayService.NewService(identities, consents, ledger, gatewayStore.New(), s.minter, big.NewInt(10), auditor, log)
	dir := directory.NewService(directory.NewInMemoryStore(), log)
	verifications := verification.NewService(verification.NewInMemoryStore(), log)

	s.signer = middleware.NewTokenSigner("test-signing-key")
	s.router = NewRouter(Handlers{
		Identity:     identityHandler.New(identities, log),
		Consent:      consentHandler.New(consents, log),
		Access:       gatewayHandler.New(gateway, dir, log),
		Ledger:       ledgerHandler.New(ledger, log),
		Directory:    directoryHandler.New(dir, log),
		Verification: verificationHandler.New(verifications, log),
		Audit:        auditHandler.New(auditStore, log),
	}, s.signer, ratelimit.NewMemory(time.Minute, 1000), nil, log)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) do(caller common.Address, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != (common.Address{}) {
		token, err := s.signer.Issue(caller, time.Hour)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) decode(rec *httptest.ResponseRecorder, into any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), into))
}

func (s *RouterSuite) TestVerificationJourney() {
	rec := s.do(s.alice, http.MethodPost, "/verification/email/challenge", nil)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var challenge struct {
		Code string `json:"code"`
	}
	s.decode(rec, &challenge)
	s.Len(challenge.Code, 6)

	rec = s.do(s.alice, http.MethodPost, "/verification/email", map[string]string{"code": challenge.Code})
	s.Require().Equal(http.StatusOK, rec.Code)
	var verify struct {
		Verified bool `json:"verified"`
	}
	s.decode(rec, &verify)
	s.True(verify.Verified)

	rec = s.do(s.alice, http.MethodPost, "/verification/national-id", map[string]string{"id_number": "AB-123456"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	// Public status read reflects both evidence kinds.
	rec = s.do(common.Address{}, http.MethodGet, "/verification/"+s.alice.Hex(), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var status struct {
		EmailVerified      bool `json:"email_verified"`
		NationalIDRecorded bool `json:"national_id_recorded"`
		Verified           bool `json:"verified"`
	}
	s.decode(rec, &status)
	s.True(status.EmailVerified)
	s.True(status.NationalIDRecorded)
	s.True(status.Verified)

	// An owner with nothing on record reads back unverified, not 404.
	rec = s.do(common.Address{}, http.MethodGet, "/verification/"+s.bob.Hex(), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &status)
	s.False(status.Verified)
}

func (s *RouterSuite) TestAuthRequired() {
	rec := s.do(common.Address{}, http.MethodPost, "/identity/register", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestHealthz() {
	rec := s.do(common.Address{}, http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestHealthzReportsDegradedBackingStore() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(Handlers{
		Identity:     identityHandler.New(identityService.NewService(identityStore.New(), s.authority, nil, log), log),
		Consent:      consentHandler.New(consentService.NewService(consentStore.New(), nil, log), log),
		Access:       gatewayHandler.New(nil, nil, log),
		Ledger:       ledgerHandler.New(nil, log),
		Directory:    directoryHandler.New(directory.NewService(directory.NewInMemoryStore(), log), log),
		Verification: verificationHandler.New(verification.NewService(verification.NewInMemoryStore(), log), log),
		Audit:        auditHandler.New(audit.NewInMemoryStore(), log),
		Health:       func(context.Context) error { return errors.New("connection refused") },
	}, s.signer, nil, nil, log)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

// The complete journey over HTTP: register, classify, grant, gated reads
// with a single reward mint, then revoke and watch access close.
func (s *RouterSuite) TestEndToEndJourney() {
	rec := s.do(s.alice, http.MethodPost, "/identity/register", nil)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(s.authority, http.MethodPut, "/identity/profile", map[string]any{
		"owner":       s.alice.Hex(),
		"credit_tier": 8,
		"income_band": 5,
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	// Gated read before any consent: 403 with the consent error.
	rec = s.do(s.bob, http.MethodGet, "/access/"+s.alice.Hex()+"/credit-tier", nil)
	s.Require().Equal(http.StatusForbidden, rec.Code)

	rec = s.do(s.alice, http.MethodPost, "/consent/grant", map[string]any{
		"requester":  s.bob.Hex(),
		"start_date": time.Now().Add(-time.Minute),
		"end_date":   time.Now().Add(30 * 24 * time.Hour),
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var consent struct {
		ConsentID string `json:"consent_id"`
		Status    string `json:"status"`
	}
	s.decode(rec, &consent)
	s.Equal("Granted", consent.Status)

	rec = s.do(s.bob, http.MethodGet, "/access/"+s.alice.Hex()+"/credit-tier", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var access struct {
		Value uint8  `json:"value"`
		Name  string `json:"name"`
	}
	s.decode(rec, &access)
	s.Equal(uint8(8), access.Value)
	s.Equal("MidGold", access.Name)

	// Second field read succeeds and does not mint again.
	rec = s.do(s.bob, http.MethodGet, "/access/"+s.alice.Hex()+"/income-band", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(common.Address{}, http.MethodGet, "/ledger/balance/"+s.alice.Hex(), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var balance struct {
		Balance string `json:"balance"`
	}
	s.decode(rec, &balance)
	s.Equal("10", balance.Balance)

	rec = s.do(s.alice, http.MethodPut, "/consent/"+consent.ConsentID+"/status", map[string]string{
		"status": "Revoked",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(s.bob, http.MethodGet, "/access/"+s.alice.Hex()+"/credit-tier", nil)
	s.Equal(http.StatusForbidden, rec.Code)
	var denial struct {
		Error string `json:"error"`
	}
	s.decode(rec, &denial)
	s.Equal("missing_consent", denial.Error)
}

func (s *RouterSuite) TestAccessByUsername() {
	s.do(s.alice, http.MethodPost, "/identity/register", nil)
	s.do(s.authority, http.MethodPut, "/identity/profile", map[string]any{
		"owner":       s.alice.Hex(),
		"credit_tier": 3,
		"income_band": 2,
	})

	rec := s.do(s.alice, http.MethodPost, "/directory", map[string]string{"username": "alice"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	s.do(s.alice, http.MethodPost, "/consent/grant", map[string]any{
		"requester":  s.bob.Hex(),
		"start_date": time.Now().Add(-time.Minute),
		"end_date":   time.Now().Add(time.Hour),
	})

	rec = s.do(s.bob, http.MethodGet, "/access/alice/credit-tier", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	// Unknown username denies before any consent check.
	rec = s.do(s.bob, http.MethodGet, "/access/nobody/credit-tier", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestUnregisteredOwnerDenial() {
	rec := s.do(s.bob, http.MethodGet, "/access/"+s.alice.Hex()+"/income-band", nil)
	s.Require().Equal(http.StatusNotFound, rec.Code)
	var denial struct {
		Error string `json:"error"`
	}
	s.decode(rec, &denial)
	s.Equal("user_not_registered", denial.Error)

	// The denial left a durable audit record for the owner.
	rec = s.do(common.Address{}, http.MethodGet, "/audit/"+s.alice.Hex(), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var events []audit.Event
	s.decode(rec, &events)
	s.Require().NotEmpty(events)
	s.Equal(audit.ActionDataAccessDenied, events[len(events)-1].Action)
}

func (s *RouterSuite) TestConsentCheckPublicRead() {
	s.do(s.alice, http.MethodPost, "/identity/register", nil)
	s.do(s.alice, http.MethodPost, "/consent", map[string]any{
		"requester":  s.bob.Hex(),
		"start_date": time.Now().Add(-time.Minute),
		"end_date":   time.Now().Add(time.Hour),
	})

	rec := s.do(common.Address{}, http.MethodGet,
		"/consent/check?owner="+s.alice.Hex()+"&requester="+s.bob.Hex(), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var check struct {
		Granted bool `json:"granted"`
	}
	s.decode(rec, &check)
	s.False(check.Granted)
}

func (s *RouterSuite) TestLedgerTransferOverHTTP() {
	// Mint as the ledger owner principal, then move funds between users.
	rec := s.do(s.minter, http.MethodPost, "/ledger/mint", map[string]string{
		"to":     s.alice.Hex(),
		"amount": "100",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(s.alice, http.MethodPost, "/ledger/transfer", map[string]string{
		"to":     s.bob.Hex(),
		"amount": "250",
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(s.alice, http.MethodPost, "/ledger/transfer", map[string]string{
		"to":     s.bob.Hex(),
		"amount": "40",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(common.Address{}, http.MethodGet, "/ledger/supply", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var supply struct {
		TotalSupply string `json:"total_supply"`
	}
	s.decode(rec, &supply)
	s.Equal("100", supply.TotalSupply)
}
