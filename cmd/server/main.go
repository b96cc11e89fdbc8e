package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

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
	"credshare/internal/platform/config"
	"credshare/internal/platform/database"
	"credshare/internal/platform/httpserver"
	"credshare/internal/platform/kafka/producer"
	"credshare/internal/platform/logger"
	"credshare/internal/platform/metrics"
	"credshare/internal/platform/middleware"
	"credshare/internal/platform/redis"
	"credshare/internal/ratelimit"
	httptransport "credshare/internal/transport/http"
	"credshare/internal/verification"
	verificationHandler "credshare/internal/verification/handler"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages. Stores fall back to in-memory implementations when their backing
// service is not configured, so a bare binary is fully functional for local
// development.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing credshare",
		"addr", cfg.Addr,
		"authority", cfg.Authority.Hex(),
		"reward_amount", cfg.RewardAmount.String(),
	)

	pool, err := database.New(database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var healthCheck func(ctx context.Context) error
	if pool != nil {
		healthCheck = pool.Health
	}

	var (
		identities identityService.Store     = identityStore.New()
		consents   consentService.Store      = consentStore.New()
		ledgers    ledgerService.Store       = ledgerStore.New()
		claims     gatewayService.ClaimStore = gatewayStore.New()
		audits     audit.Store               = audit.NewInMemoryStore()
		usernames  directory.Store           = directory.NewInMemoryStore()
		evidence   verification.Store        = verification.NewInMemoryStore()
	)
	if pool != nil {
		db := pool.DB()
		identities = identityStore.NewPostgres(db)
		consents = consentStore.NewPostgres(db)
		ledgers = ledgerStore.NewPostgres(db)
		claims = gatewayStore.NewPostgres(db)
		audits = audit.NewPostgres(db)
		usernames = directory.NewPostgresStore(db)
		evidence = verification.NewPostgresStore(db)
		log.Info("using postgres-backed stores")
	}

	publisherOpts := []audit.PublisherOption{
		audit.WithAsyncBuffer(1024),
		audit.WithPublisherLogger(log),
	}
	if cfg.KafkaBrokers != "" {
		kafkaProducer, err := producer.New(producer.Config{
			Brokers:         cfg.KafkaBrokers,
			Retries:         5,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close()
		publisherOpts = append(publisherOpts, audit.WithSink(audit.NewKafkaSink(kafkaProducer, cfg.KafkaAuditTopic)))
		log.Info("audit events publishing to kafka", "topic", cfg.KafkaAuditTopic)
	}
	auditor := audit.NewPublisher(audits, publisherOpts...)
	defer auditor.Close()

	var limiter ratelimit.Limiter = ratelimit.NewMemory(cfg.RateLimitWindow, cfg.RateLimitMax)
	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		limiter = ratelimit.NewRedis(redisClient.Client, cfg.RateLimitWindow, cfg.RateLimitMax)
		defer redisClient.Close()
		log.Info("rate limiting backed by redis")
	}

	m := metrics.New()

	ledgerOwner := cfg.LedgerOwner
	if ledgerOwner == (common.Address{}) {
		ledgerOwner, err = devLedgerOwner(log)
		if err != nil {
			log.Error("ledger owner generation failed", "error", err)
			os.Exit(1)
		}
	}

	identitySvc := identityService.NewService(identities, cfg.Authority, auditor, log, identityService.WithMetrics(m))
	consentSvc := consentService.NewService(consents, auditor, log, consentService.WithMetrics(m))
	ledgerSvc, err := ledgerService.NewService(ledgers, ledgerOwner, auditor, log, ledgerService.WithMetrics(m))
	if err != nil {
		log.Error("ledger init failed", "error", err)
		os.Exit(1)
	}
	gatewaySvc := gatewayService.NewService(
		identitySvc, consentSvc, ledgerSvc, claims,
		ledgerOwner, cfg.RewardAmount,
		auditor, log, gatewayService.WithMetrics(m),
	)
	directorySvc := directory.NewService(usernames, log)
	verificationSvc := verification.NewService(evidence, log)

	signer := middleware.NewTokenSigner(cfg.JWTSigningKey)
	router := httptransport.NewRouter(httptransport.Handlers{
		Identity:     identityHandler.New(identitySvc, log),
		Consent:      consentHandler.New(consentSvc, log),
		Access:       gatewayHandler.New(gatewaySvc, directorySvc, log),
		Ledger:       ledgerHandler.New(ledgerSvc, log),
		Directory:    directoryHandler.New(directorySvc, log),
		Verification: verificationHandler.New(verificationSvc, log),
		Audit:        auditHandler.New(audits, log),
		Health:       healthCheck,
	}, signer, limiter, m, log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// devLedgerOwner mints a throwaway ledger-owner key for local runs where
// LEDGER_OWNER_ADDRESS is unset. The key is logged so tokengen can issue a
// matching bearer token; without a real owner the ledger could never seed a
// minter and rewards would silently fail.
func devLedgerOwner(log *slog.Logger) (common.Address, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return common.Address{}, err
	}
	addr := crypto.PubkeyToAddress(key.PublicKey)
	log.Warn("LEDGER_OWNER_ADDRESS unset, generated a dev ledger owner",
		"address", addr.Hex(),
		"private_key", hexutil.Encode(crypto.FromECDSA(key)),
	)
	return addr, nil
}
