package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"credshare/internal/platform/middleware"
	"credshare/pkg/platform/httputil"
	"credshare/pkg/validation"
)

// Service defines the directory operations the handler delegates to.
type Service interface {
	Register(ctx context.Context, caller common.Address, username string) error
	Resolve(ctx context.Context, username string) (common.Address, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register wires the authenticated directory routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/directory", h.HandleRegister)
}

// RegisterPublic wires the username lookup route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/directory/{username}", h.HandleResolve)
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

func (r *RegisterRequest) Validate() error {
	return validation.Validate(r)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Register(ctx, caller, req.Username); err != nil {
		h.logger.WarnContext(ctx, "directory register failed", "error", err, "caller", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"username": strings.ToLower(req.Username),
		"address":  caller.Hex(),
	})
}

func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	addr, err := h.service.Resolve(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"address": addr.Hex()})
}
