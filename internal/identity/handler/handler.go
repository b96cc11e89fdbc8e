package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"

	"credshare/internal/identity/models"
	"credshare/internal/platform/middleware"
	id "credshare/pkg/domain"
	dErrors "credshare/pkg/domain-errors"
	"credshare/pkg/platform/httputil"
)

// Service defines the identity operations the handler delegates to.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Register(ctx context.Context, caller common.Address) (*models.Identity, error)
	UpdateDataPointer(ctx context.Context, caller common.Address, pointer id.DataPointer) (*models.Identity, error)
	UpdateProfile(ctx context.Context, caller, owner common.Address, tier models.CreditTier, band models.IncomeBand) (*models.Identity, error)
	CreditTier(ctx context.Context, owner common.Address) (models.CreditTier, error)
	IncomeBand(ctx context.Context, owner common.Address) (models.IncomeBand, error)
	Identity(ctx context.Context, owner common.Address) (*models.Identity, error)
	VerifyOwnership(claimed common.Address, message, signature []byte) (bool, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register wires the authenticated identity routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identity/register", h.HandleRegister)
	r.Put("/identity/data-pointer", h.HandleUpdateDataPointer)
	r.Put("/identity/profile", h.HandleUpdateProfile)
	r.Get("/identity/{owner}", h.HandleGetIdentity)
	r.Get("/identity/{owner}/credit-tier", h.HandleGetCreditTier)
	r.Get("/identity/{owner}/income-band", h.HandleGetIncomeBand)
}

// RegisterPublic wires the stateless verification route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/identity/verify-ownership", h.HandleVerifyOwnership)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	record, err := h.service.Register(ctx, caller)
	if err != nil {
		h.logger.WarnContext(ctx, "register failed", "error", err, "caller", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toIdentityResponse(record))
}

func (h *Handler) HandleUpdateDataPointer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[UpdateDataPointerRequest](w, r, h.logger)
	if !ok {
		return
	}
	pointer, err := id.ParseDataPointer(req.DataPointer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.UpdateDataPointer(ctx, caller, pointer)
	if err != nil {
		h.logger.WarnContext(ctx, "data pointer update failed", "error", err, "caller", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIdentityResponse(record))
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[UpdateProfileRequest](w, r, h.logger)
	if !ok {
		return
	}
	owner, err := id.ParseAddress(req.Owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.UpdateProfile(ctx, caller, owner,
		models.CreditTier(req.CreditTier), models.IncomeBand(req.IncomeBand))
	if err != nil {
		h.logger.WarnContext(ctx, "profile update failed", "error", err, "owner", owner.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIdentityResponse(record))
}

func (h *Handler) HandleGetIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := id.ParseAddress(chi.URLParam(r, "owner"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.service.Identity(ctx, owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIdentityResponse(record))
}

func (h *Handler) HandleGetCreditTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := id.ParseAddress(chi.URLParam(r, "owner"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tier, err := h.service.CreditTier(ctx, owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ClassificationResponse{
		Owner: owner.Hex(),
		Field: "credit_tier",
		Value: uint8(tier),
		Name:  tier.String(),
	})
}

func (h *Handler) HandleGetIncomeBand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := id.ParseAddress(chi.URLParam(r, "owner"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	band, err := h.service.IncomeBand(ctx, owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ClassificationResponse{
		Owner: owner.Hex(),
		Field: "income_band",
		Value: uint8(band),
		Name:  band.String(),
	})
}

func (h *Handler) HandleVerifyOwnership(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[VerifyOwnershipRequest](w, r, h.logger)
	if !ok {
		return
	}
	owner, err := id.ParseAddress(req.Owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	signature, err := hexutil.Decode(req.Signature)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidSignature, "signature must be hex encoded"))
		return
	}

	valid, err := h.service.VerifyOwnership(owner, []byte(req.Message), signature)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &VerifyOwnershipResponse{Valid: valid})
}
