//go:build integration

// Package containers starts throwaway backing services for integration
// tests. Requires a local Docker daemon; run with -tags integration.
package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers Postgres instance with the
// credshare schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS identities (
    owner         BYTEA PRIMARY KEY,
    credit_tier   SMALLINT NOT NULL DEFAULT 0,
    income_band   SMALLINT NOT NULL DEFAULT 0,
    data_pointer  BYTEA NOT NULL,
    registered_at TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS consents (
    owner      BYTEA NOT NULL,
    consent_id BYTEA NOT NULL,
    requester  BYTEA NOT NULL,
    status     SMALLINT NOT NULL,
    start_date TIMESTAMPTZ NOT NULL,
    end_date   TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (owner, consent_id)
);

CREATE TABLE IF NOT EXISTS reward_claims (
    owner      BYTEA NOT NULL,
    requester  BYTEA NOT NULL,
    claimed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (owner, requester)
);

CREATE TABLE IF NOT EXISTS ledger_balances (
    owner  BYTEA PRIMARY KEY,
    amount NUMERIC(78,0) NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_allowances (
    owner   BYTEA NOT NULL,
    spender BYTEA NOT NULL,
    amount  NUMERIC(78,0) NOT NULL,
    PRIMARY KEY (owner, spender)
);

CREATE TABLE IF NOT EXISTS ledger_minters (
    addr BYTEA PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS ledger_meta (
    id           BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (id),
    total_supply NUMERIC(78,0) NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_events (
    id           UUID PRIMARY KEY,
    ts           TIMESTAMPTZ NOT NULL,
    action       TEXT NOT NULL,
    owner        BYTEA NOT NULL,
    counterparty BYTEA,
    consent_id   TEXT,
    field        TEXT,
    status       TEXT,
    reason       TEXT,
    amount       TEXT
);
CREATE INDEX IF NOT EXISTS audit_events_owner_ts_idx ON audit_events (owner, ts);

CREATE TABLE IF NOT EXISTS usernames (
    username TEXT PRIMARY KEY,
    addr     BYTEA NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS verification_challenges (
    owner      BYTEA PRIMARY KEY,
    code       TEXT NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS verifications (
    owner            BYTEA PRIMARY KEY,
    email_hash       TEXT,
    national_id_hash TEXT,
    updated_at       TIMESTAMPTZ NOT NULL
);
`

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("credshare_test"),
		postgres.WithUsername("credshare"),
		postgres.WithPassword("credshare_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(context.Background())
	})

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// TruncateTables clears the named tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return err
		}
	}
	return nil
}
