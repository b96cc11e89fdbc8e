package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"credshare/internal/consent/models"
	"credshare/internal/platform/middleware"
	id "credshare/pkg/domain"
	"credshare/pkg/platform/httputil"
)

// Service defines the consent operations the handler delegates to.
type Service interface {
	Create(ctx context.Context, caller, requester, owner common.Address, startDate, endDate time.Time) (*models.Record, error)
	CreateAndGrant(ctx context.Context, caller, requester, owner common.Address, startDate, endDate time.Time) (*models.Record, error)
	ChangeStatus(ctx context.Context, caller, owner common.Address, consentID id.ConsentID, newStatus models.Status) (*models.Record, error)
	IsGranted(ctx context.Context, owner, requester common.Address) (bool, error)
	Status(ctx context.Context, owner, requester common.Address) (*models.Record, models.Status, error)
	List(ctx context.Context, owner common.Address) ([]*models.Record, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register wires the authenticated consent routes. The caller is always the
// owner for mutations.
func (h *Handler) Register(r chi.Router) {
	r.Post("/consent", h.HandleCreate)
	r.Post("/consent/grant", h.HandleCreateAndGrant)
	r.Put("/consent/{consentId}/status", h.HandleChangeStatus)
	r.Get("/consent", h.HandleList)
}

// RegisterPublic wires the read-only consent routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/consent/check", h.HandleCheck)
	r.Get("/consent/status", h.HandleStatus)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.service.Create)
}

func (h *Handler) HandleCreateAndGrant(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.service.CreateAndGrant)
}

func (h *Handler) create(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, caller, requester, owner common.Address, startDate, endDate time.Time) (*models.Record, error),
) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateConsentRequest](w, r, h.logger)
	if !ok {
		return
	}
	requester, err := id.ParseAddress(req.Requester)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := op(ctx, caller, requester, caller, req.StartDate, req.EndDate)
	if err != nil {
		h.logger.WarnContext(ctx, "consent create failed", "error", err, "owner", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toConsentResponse(record))
}

func (h *Handler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	consentID, err := id.ParseConsentID(chi.URLParam(r, "consentId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ChangeStatusRequest](w, r, h.logger)
	if !ok {
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.ChangeStatus(ctx, caller, caller, consentID, status)
	if err != nil {
		h.logger.WarnContext(ctx, "consent status change failed", "error", err, "owner", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toConsentResponse(record))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	records, err := h.service.List(ctx, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]*ConsentResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toConsentResponse(record))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, requester, ok := h.pairParams(w, r)
	if !ok {
		return
	}

	granted, err := h.service.IsGranted(ctx, owner, requester)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &CheckResponse{
		Owner:     owner.Hex(),
		Requester: requester.Hex(),
		Granted:   granted,
	})
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, requester, ok := h.pairParams(w, r)
	if !ok {
		return
	}

	record, derived, err := h.service.Status(ctx, owner, requester)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := toConsentResponse(record)
	resp.DerivedStatus = derived.String()
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) pairParams(w http.ResponseWriter, r *http.Request) (common.Address, common.Address, bool) {
	owner, err := id.ParseAddress(r.URL.Query().Get("owner"))
	if err != nil {
		httputil.WriteError(w, err)
		return common.Address{}, common.Address{}, false
	}
	requester, err := id.ParseAddress(r.URL.Query().Get("requester"))
	if err != nil {
		httputil.WriteError(w, err)
		return common.Address{}, common.Address{}, false
	}
	return owner, requester, true
}
