package config

import (
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string

	// Authority is the single trusted principal allowed to write
	// classification fields.
	Authority common.Address

	// RewardAmount is minted to an owner on the first successful access by a
	// new requester.
	RewardAmount *big.Int

	// LedgerOwner administers the reward ledger's minter allow-list.
	LedgerOwner common.Address

	DatabaseURL string

	KafkaBrokers    string
	KafkaAuditTopic string

	RedisURL        string
	RateLimitWindow time.Duration
	RateLimitMax    int
}

const (
	defaultAddr            = ":8080"
	defaultRewardAmount    = 10
	defaultRateLimitWindow = time.Minute
	defaultRateLimitMax    = 60
	defaultAuditTopic      = "credshare.audit.v1"
)

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("CREDSHARE_ADDR", defaultAddr),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		JWTSigningKey:   envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaAuditTopic: envOr("KAFKA_AUDIT_TOPIC", defaultAuditTopic),
		RedisURL:        os.Getenv("REDIS_URL"),
		RateLimitWindow: defaultRateLimitWindow,
		RateLimitMax:    defaultRateLimitMax,
		RewardAmount:    big.NewInt(defaultRewardAmount),
	}

	if v := os.Getenv("AUTHORITY_ADDRESS"); common.IsHexAddress(v) {
		cfg.Authority = common.HexToAddress(v)
	}
	if v := os.Getenv("LEDGER_OWNER_ADDRESS"); common.IsHexAddress(v) {
		cfg.LedgerOwner = common.HexToAddress(v)
	}
	if v := os.Getenv("REWARD_AMOUNT"); v != "" {
		if n, ok := new(big.Int).SetString(v, 10); ok && n.Sign() > 0 {
			cfg.RewardAmount = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RateLimitWindow = d
		}
	}
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitMax = n
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
