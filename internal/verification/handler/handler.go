package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"credshare/internal/platform/middleware"
	"credshare/internal/verification"
	id "credshare/pkg/domain"
	"credshare/pkg/platform/httputil"
	"credshare/pkg/validation"
)

// Service defines the verification operations the handler delegates to.
type Service interface {
	GenerateEmailChallenge(ctx context.Context, caller common.Address) (*verification.Challenge, error)
	VerifyEmailChallenge(ctx context.Context, caller common.Address, code string) (bool, error)
	RecordNationalID(ctx context.Context, caller common.Address, idNumber string) (string, error)
	Verification(ctx context.Context, owner common.Address) (*verification.Record, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register wires the authenticated verification routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verification/email/challenge", h.HandleGenerateChallenge)
	r.Post("/verification/email", h.HandleVerifyEmail)
	r.Post("/verification/national-id", h.HandleRecordNationalID)
}

// RegisterPublic wires the verification status lookup.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/verification/{owner}", h.HandleGetVerification)
}

type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required,notblank"`
}

func (r *VerifyEmailRequest) Normalize() { r.Code = strings.TrimSpace(r.Code) }
func (r *VerifyEmailRequest) Validate() error {
	return validation.Validate(r)
}

type RecordNationalIDRequest struct {
	IDNumber string `json:"id_number" validate:"required,notblank"`
}

func (r *RecordNationalIDRequest) Normalize() { r.IDNumber = strings.TrimSpace(r.IDNumber) }
func (r *RecordNationalIDRequest) Validate() error {
	return validation.Validate(r)
}

// ChallengeResponse carries the issued code back to the caller; a production
// deployment would hand it to a mail sender instead.
type ChallengeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VerificationResponse struct {
	Owner              string `json:"owner"`
	EmailVerified      bool   `json:"email_verified"`
	NationalIDRecorded bool   `json:"national_id_recorded"`
	Verified           bool   `json:"verified"`
}

func (h *Handler) HandleGenerateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	challenge, err := h.service.GenerateEmailChallenge(ctx, caller)
	if err != nil {
		h.logger.WarnContext(ctx, "challenge generation failed", "error", err, "caller", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ChallengeResponse{
		Code:      challenge.Code,
		ExpiresAt: challenge.ExpiresAt,
	})
}

func (h *Handler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyEmailRequest](w, r, h.logger)
	if !ok {
		return
	}

	verified, err := h.service.VerifyEmailChallenge(ctx, caller, req.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "email verification failed", "error", err, "caller", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"verified": verified})
}

func (h *Handler) HandleRecordNationalID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[RecordNationalIDRequest](w, r, h.logger)
	if !ok {
		return
	}

	hash, err := h.service.RecordNationalID(ctx, caller, req.IDNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "national id recording failed", "error", err, "caller", caller.Hex())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"national_id_hash": hash})
}

func (h *Handler) HandleGetVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := id.ParseAddress(chi.URLParam(r, "owner"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.service.Verification(ctx, owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, VerificationResponse{
		Owner:              record.Owner.Hex(),
		EmailVerified:      record.EmailHash != "",
		NationalIDRecorded: record.NationalIDHash != "",
		Verified:           record.IsVerified(),
	})
}
