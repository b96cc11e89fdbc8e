package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Schema:
//
//	CREATE TABLE ledger_balances (
//	    owner  BYTEA PRIMARY KEY,
//	    amount NUMERIC(78,0) NOT NULL
//	);
//
//	CREATE TABLE ledger_allowances (
//	    owner   BYTEA NOT NULL,
//	    spender BYTEA NOT NULL,
//	    amount  NUMERIC(78,0) NOT NULL,
//	    PRIMARY KEY (owner, spender)
//	);
//
//	CREATE TABLE ledger_minters (
//	    addr BYTEA PRIMARY KEY
//	);
//
//	CREATE TABLE ledger_meta (
//	    id           BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (id),
//	    total_supply NUMERIC(78,0) NOT NULL
//	);
//
// NUMERIC(78,0) covers the full uint256 range. Amounts cross the driver as
// decimal strings so no precision is lost.

// PostgresStore persists the ledger in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ledger store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Balance(ctx context.Context, owner common.Address) (*big.Int, error) {
	query := `SELECT amount FROM ledger_balances WHERE owner = $1`
	return s.scanAmount(s.db.QueryRowContext(ctx, query, owner.Bytes()), "balance")
}

func (s *PostgresStore) SetBalance(ctx context.Context, owner common.Address, amount *big.Int) error {
	query := `
		INSERT INTO ledger_balances (owner, amount)
		VALUES ($1, $2)
		ON CONFLICT (owner) DO UPDATE SET amount = EXCLUDED.amount
	`
	if _, err := s.db.ExecContext(ctx, query, owner.Bytes(), amount.String()); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

func (s *PostgresStore) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	query := `SELECT amount FROM ledger_allowances WHERE owner = $1 AND spender = $2`
	return s.scanAmount(s.db.QueryRowContext(ctx, query, owner.Bytes(), spender.Bytes()), "allowance")
}

func (s *PostgresStore) SetAllowance(ctx context.Context, owner, spender common.Address, amount *big.Int) error {
	query := `
		INSERT INTO ledger_allowances (owner, spender, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner, spender) DO UPDATE SET amount = EXCLUDED.amount
	`
	if _, err := s.db.ExecContext(ctx, query, owner.Bytes(), spender.Bytes(), amount.String()); err != nil {
		return fmt.Errorf("set allowance: %w", err)
	}
	return nil
}

func (s *PostgresStore) TotalSupply(ctx context.Context) (*big.Int, error) {
	query := `SELECT total_supply FROM ledger_meta`
	return s.scanAmount(s.db.QueryRowContext(ctx, query), "total supply")
}

// AddSupply increments the supply row in one statement so concurrent minters
// never lose each other's updates.
func (s *PostgresStore) AddSupply(ctx context.Context, delta *big.Int) (*big.Int, error) {
	query := `
		INSERT INTO ledger_meta (id, total_supply)
		VALUES (TRUE, $1)
		ON CONFLICT (id) DO UPDATE SET total_supply = ledger_meta.total_supply + EXCLUDED.total_supply
		RETURNING total_supply
	`
	return s.scanAmount(s.db.QueryRowContext(ctx, query, delta.String()), "add supply")
}

func (s *PostgresStore) IsMinter(ctx context.Context, addr common.Address) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ledger_minters WHERE addr = $1)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, addr.Bytes()).Scan(&exists); err != nil {
		return false, fmt.Errorf("is minter: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) AddMinter(ctx context.Context, addr common.Address) error {
	query := `INSERT INTO ledger_minters (addr) VALUES ($1) ON CONFLICT DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, addr.Bytes()); err != nil {
		return fmt.Errorf("add minter: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveMinter(ctx context.Context, addr common.Address) error {
	query := `DELETE FROM ledger_minters WHERE addr = $1`
	if _, err := s.db.ExecContext(ctx, query, addr.Bytes()); err != nil {
		return fmt.Errorf("remove minter: %w", err)
	}
	return nil
}

// scanAmount reads a NUMERIC column as a decimal string. A missing row reads
// as zero, matching the Store contract.
func (s *PostgresStore) scanAmount(row *sql.Row, what string) (*big.Int, error) {
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return new(big.Int), nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("%s: malformed amount %q", what, raw)
	}
	return amount, nil
}
