package verification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/sentinel"
)

// Schema:
//
//	CREATE TABLE verification_challenges (
//	    owner      BYTEA PRIMARY KEY,
//	    code       TEXT NOT NULL,
//	    expires_at TIMESTAMPTZ NOT NULL
//	);
//
//	CREATE TABLE verifications (
//	    owner            BYTEA PRIMARY KEY,
//	    email_hash       TEXT,
//	    national_id_hash TEXT,
//	    updated_at       TIMESTAMPTZ NOT NULL
//	);

// PostgresStore persists verification state in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed verification store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveChallenge(ctx context.Context, owner common.Address, challenge *Challenge) error {
	query := `
		INSERT INTO verification_challenges (owner, code, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner) DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at
	`
	if _, err := s.db.ExecContext(ctx, query, owner.Bytes(), challenge.Code, challenge.ExpiresAt); err != nil {
		return fmt.Errorf("save challenge: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindChallenge(ctx context.Context, owner common.Address) (*Challenge, error) {
	query := `SELECT code, expires_at FROM verification_challenges WHERE owner = $1`
	var challenge Challenge
	err := s.db.QueryRowContext(ctx, query, owner.Bytes()).Scan(&challenge.Code, &challenge.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find challenge: %w", err)
	}
	return &challenge, nil
}

func (s *PostgresStore) DeleteChallenge(ctx context.Context, owner common.Address) error {
	query := `DELETE FROM verification_challenges WHERE owner = $1`
	res, err := s.db.ExecContext(ctx, query, owner.Bytes())
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, owner common.Address) (*Record, error) {
	query := `SELECT owner, email_hash, national_id_hash, updated_at FROM verifications WHERE owner = $1`
	var (
		record          Record
		ownerB          []byte
		email, national sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, owner.Bytes()).Scan(&ownerB, &email, &national, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find verification: %w", err)
	}
	record.Owner = common.BytesToAddress(ownerB)
	record.EmailHash = email.String
	record.NationalIDHash = national.String
	return &record, nil
}

func (s *PostgresStore) SetEmailHash(ctx context.Context, owner common.Address, hash string, now time.Time) error {
	query := `
		INSERT INTO verifications (owner, email_hash, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner) DO UPDATE SET email_hash = EXCLUDED.email_hash, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, owner.Bytes(), hash, now); err != nil {
		return fmt.Errorf("set email hash: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetNationalIDHash(ctx context.Context, owner common.Address, hash string, now time.Time) error {
	query := `
		INSERT INTO verifications (owner, national_id_hash, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner) DO UPDATE SET national_id_hash = EXCLUDED.national_id_hash, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, owner.Bytes(), hash, now); err != nil {
		return fmt.Errorf("set national id hash: %w", err)
	}
	return nil
}
