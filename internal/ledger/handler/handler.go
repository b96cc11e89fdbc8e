package handler

import (
	"context"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"credshare/internal/platform/middleware"
	id "credshare/pkg/domain"
	"credshare/pkg/platform/httputil"
)

// Service defines the ledger operations the handler delegates to.
type Service interface {
	Mint(ctx context.Context, caller, to common.Address, amount *big.Int) error
	Transfer(ctx context.Context, caller, to common.Address, amount *big.Int) error
	Approve(ctx context.Context, caller, spender common.Address, amount *big.Int) error
	TransferFrom(ctx context.Context, caller, from, to common.Address, amount *big.Int) error
	AddMinter(ctx context.Context, caller, addr common.Address) error
	RemoveMinter(ctx context.Context, caller, addr common.Address) error
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	AllowanceOf(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	TotalSupply(ctx context.Context) (*big.Int, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register wires the authenticated ledger mutations.
func (h *Handler) Register(r chi.Router) {
	r.Post("/ledger/transfer", h.HandleTransfer)
	r.Post("/ledger/approve", h.HandleApprove)
	r.Post("/ledger/transfer-from", h.HandleTransferFrom)
	r.Post("/ledger/mint", h.HandleMint)
	r.Post("/ledger/minters", h.HandleAddMinter)
	r.Delete("/ledger/minters/{address}", h.HandleRemoveMinter)
}

// RegisterPublic wires the read-only ledger routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/ledger/balance/{address}", h.HandleBalance)
	r.Get("/ledger/allowance/{owner}/{spender}", h.HandleAllowance)
	r.Get("/ledger/supply", h.HandleSupply)
}

func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger)
	if !ok {
		return
	}
	to, err := id.ParseAddress(req.To)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Transfer(ctx, caller, to, amount); err != nil {
		h.logger.WarnContext(ctx, "transfer failed", "error", err, "from", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	h.writeBalance(w, r, caller)
}

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[ApproveRequest](w, r, h.logger)
	if !ok {
		return
	}
	spender, err := id.ParseAddress(req.Spender)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Approve(ctx, caller, spender, amount); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AllowanceResponse{
		Owner:   caller.Hex(),
		Spender: spender.Hex(),
		Amount:  amount.String(),
	})
}

func (h *Handler) HandleTransferFrom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[TransferFromRequest](w, r, h.logger)
	if !ok {
		return
	}
	from, err := id.ParseAddress(req.From)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	to, err := id.ParseAddress(req.To)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.TransferFrom(ctx, caller, from, to, amount); err != nil {
		h.logger.WarnContext(ctx, "transfer-from failed", "error", err, "spender", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	h.writeBalance(w, r, to)
}

func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger)
	if !ok {
		return
	}
	to, err := id.ParseAddress(req.To)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Mint(ctx, caller, to, amount); err != nil {
		h.logger.WarnContext(ctx, "mint failed", "error", err, "caller", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	h.writeBalance(w, r, to)
}

func (h *Handler) HandleAddMinter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[AddMinterRequest](w, r, h.logger)
	if !ok {
		return
	}
	addr, err := id.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.AddMinter(ctx, caller, addr); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"minter": addr.Hex()})
}

func (h *Handler) HandleRemoveMinter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	addr, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.RemoveMinter(ctx, caller, addr); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeBalance(w, r, addr)
}

func (h *Handler) HandleAllowance(w http.ResponseWriter, r *http.Request) {
	owner, err := id.ParseAddress(chi.URLParam(r, "owner"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	spender, err := id.ParseAddress(chi.URLParam(r, "spender"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	amount, err := h.service.AllowanceOf(r.Context(), owner, spender)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AllowanceResponse{
		Owner:   owner.Hex(),
		Spender: spender.Hex(),
		Amount:  amount.String(),
	})
}

func (h *Handler) HandleSupply(w http.ResponseWriter, r *http.Request) {
	supply, err := h.service.TotalSupply(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"total_supply": supply.String()})
}

func (h *Handler) writeBalance(w http.ResponseWriter, r *http.Request, addr common.Address) {
	balance, err := h.service.BalanceOf(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &BalanceResponse{
		Address: addr.Hex(),
		Balance: balance.String(),
	})
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type AllowanceResponse struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}
