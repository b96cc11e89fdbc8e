package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Schema:
//
//	CREATE TABLE reward_claims (
//	    owner     BYTEA NOT NULL,
//	    requester BYTEA NOT NULL,
//	    claimed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (owner, requester)
//	);

// PostgresStore persists reward claims in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed claim store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Claimed(ctx context.Context, owner, requester common.Address) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reward_claims WHERE owner = $1 AND requester = $2)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, owner.Bytes(), requester.Bytes()).Scan(&exists); err != nil {
		return false, fmt.Errorf("claim lookup: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) MarkClaimed(ctx context.Context, owner, requester common.Address) error {
	query := `
		INSERT INTO reward_claims (owner, requester)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, owner.Bytes(), requester.Bytes()); err != nil {
		return fmt.Errorf("mark claim: %w", err)
	}
	return nil
}
