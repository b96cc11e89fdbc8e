package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	identitymodels "credshare/internal/identity/models"
	"credshare/internal/platform/middleware"
	id "credshare/pkg/domain"
	"credshare/pkg/platform/httputil"
)

// Service defines the gateway reads the handler delegates to.
type Service interface {
	GetCreditTier(ctx context.Context, requester, owner common.Address) (identitymodels.CreditTier, error)
	GetIncomeBand(ctx context.Context, requester, owner common.Address) (identitymodels.IncomeBand, error)
}

// Resolver turns a username into an owner address so access reads can name
// owners either way.
type Resolver interface {
	Resolve(ctx context.Context, username string) (common.Address, error)
}

type Handler struct {
	service  Service
	resolver Resolver
	logger   *slog.Logger
}

func New(service Service, resolver Resolver, logger *slog.Logger) *Handler {
	return &Handler{service: service, resolver: resolver, logger: logger}
}

// Register wires the consent-gated access routes. The authenticated caller is
// the requester.
func (h *Handler) Register(r chi.Router) {
	r.Get("/access/{owner}/credit-tier", h.HandleGetCreditTier)
	r.Get("/access/{owner}/income-band", h.HandleGetIncomeBand)
}

func (h *Handler) HandleGetCreditTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := middleware.Caller(ctx)
	owner, ok := h.ownerParam(w, r)
	if !ok {
		return
	}

	tier, err := h.service.GetCreditTier(ctx, requester, owner)
	if err != nil {
		h.logger.WarnContext(ctx, "access denied", "error", err,
			"owner", owner.Hex(), "requester", requester.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AccessResponse{
		Owner: owner.Hex(),
		Field: "credit_tier",
		Value: uint8(tier),
		Name:  tier.String(),
	})
}

func (h *Handler) HandleGetIncomeBand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := middleware.Caller(ctx)
	owner, ok := h.ownerParam(w, r)
	if !ok {
		return
	}

	band, err := h.service.GetIncomeBand(ctx, requester, owner)
	if err != nil {
		h.logger.WarnContext(ctx, "access denied", "error", err,
			"owner", owner.Hex(), "requester", requester.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AccessResponse{
		Owner: owner.Hex(),
		Field: "income_band",
		Value: uint8(band),
		Name:  band.String(),
	})
}

// ownerParam accepts either a hex address or a registered username.
func (h *Handler) ownerParam(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	raw := chi.URLParam(r, "owner")
	if common.IsHexAddress(raw) {
		owner, err := id.ParseAddress(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return common.Address{}, false
		}
		return owner, true
	}

	owner, err := h.resolver.Resolve(r.Context(), raw)
	if err != nil {
		httputil.WriteError(w, err)
		return common.Address{}, false
	}
	return owner, true
}

type AccessResponse struct {
	Owner string `json:"owner"`
	Field string `json:"field"`
	Value uint8  `json:"value"`
	Name  string `json:"name"`
}
