package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5/pgconn"

	"credshare/internal/sentinel"
)

// Schema:
//
//	CREATE TABLE usernames (
//	    username TEXT PRIMARY KEY,
//	    addr     BYTEA NOT NULL UNIQUE
//	);

// PostgresStore persists username bindings in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Bind(ctx context.Context, username string, addr common.Address) error {
	query := `INSERT INTO usernames (username, addr) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, username, addr.Bytes()); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("bind username: %w", err)
	}
	return nil
}

func (s *PostgresStore) Resolve(ctx context.Context, username string) (common.Address, error) {
	query := `SELECT addr FROM usernames WHERE username = $1`
	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, username).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.Address{}, sentinel.ErrNotFound
		}
		return common.Address{}, fmt.Errorf("resolve username: %w", err)
	}
	return common.BytesToAddress(raw), nil
}

func (s *PostgresStore) NameOf(ctx context.Context, addr common.Address) (string, error) {
	query := `SELECT username FROM usernames WHERE addr = $1`
	var name string
	if err := s.db.QueryRowContext(ctx, query, addr.Bytes()).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("name lookup: %w", err)
	}
	return name, nil
}
