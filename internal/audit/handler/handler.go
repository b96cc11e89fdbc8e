package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"credshare/internal/audit"
	id "credshare/pkg/domain"
	dErrors "credshare/pkg/domain-errors"
	"credshare/pkg/platform/httputil"
)

// Store is the read side of the audit log.
type Store interface {
	ListByOwner(ctx context.Context, owner common.Address) ([]audit.Event, error)
}

type Handler struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register wires the audit read route. The dashboard consumer filters events
// by owner, so that is the only query shape served.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/{owner}", h.HandleListByOwner)
}

func (h *Handler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := id.ParseAddress(chi.URLParam(r, "owner"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.store.ListByOwner(ctx, owner)
	if err != nil {
		h.logger.WarnContext(ctx, "audit list failed", "error", err, "owner", owner.Hex())
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}
