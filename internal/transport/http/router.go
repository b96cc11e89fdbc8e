// Package httptransport wires the HTTP surface: route groups, middleware
// stack, auth, and rate limiting. Handlers stay in their domain packages;
// this package only assembles them.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	auditHandler "credshare/internal/audit/handler"
	consentHandler "credshare/internal/consent/handler"
	directoryHandler "credshare/internal/directory/handler"
	gatewayHandler "credshare/internal/gateway/handler"
	identityHandler "credshare/internal/identity/handler"
	ledgerHandler "credshare/internal/ledger/handler"
	"credshare/internal/platform/metrics"
	"credshare/internal/platform/middleware"
	"credshare/internal/ratelimit"
	verificationHandler "credshare/internal/verification/handler"
)

// Handlers collects the per-domain HTTP handlers the router assembles.
type Handlers struct {
	Identity     *identityHandler.Handler
	Consent      *consentHandler.Handler
	Access       *gatewayHandler.Handler
	Ledger       *ledgerHandler.Handler
	Directory    *directoryHandler.Handler
	Verification *verificationHandler.Handler
	Audit        *auditHandler.Handler

	// Health reports backing-store reachability. Nil skips the check and
	// /healthz answers ok on liveness alone.
	Health func(ctx context.Context) error
}

// NewRouter wires all endpoints with the middleware stack. Gated access
// reads additionally sit behind the rate limiter.
func NewRouter(
	h Handlers,
	signer *middleware.TokenSigner,
	limiter ratelimit.Limiter,
	m *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	if m != nil {
		r.Use(middleware.Latency(m))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if h.Health != nil {
			if err := h.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public reads and stateless verification.
	r.Group(func(r chi.Router) {
		h.Identity.RegisterPublic(r)
		h.Consent.RegisterPublic(r)
		h.Ledger.RegisterPublic(r)
		h.Directory.RegisterPublic(r)
		h.Verification.RegisterPublic(r)
		h.Audit.Register(r)
	})

	// Authenticated surface: the bearer token subject is the caller address.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(signer, logger))

		h.Identity.Register(r)
		h.Consent.Register(r)
		h.Ledger.Register(r)
		h.Directory.Register(r)
		h.Verification.Register(r)

		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(ratelimit.Middleware(limiter))
			}
			h.Access.Register(r)
		})
	})

	return r
}
