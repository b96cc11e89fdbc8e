package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5/pgconn"

	"credshare/internal/identity/models"
	"credshare/internal/sentinel"
	id "credshare/pkg/domain"
)

// Schema:
//
//	CREATE TABLE identities (
//	    owner         BYTEA PRIMARY KEY,
//	    credit_tier   SMALLINT NOT NULL DEFAULT 0,
//	    income_band   SMALLINT NOT NULL DEFAULT 0,
//	    data_pointer  BYTEA NOT NULL,
//	    registered_at TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL
//	);

// PostgresStore persists identities in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed identity store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, identity *models.Identity) error {
	query := `
		INSERT INTO identities (owner, credit_tier, income_band, data_pointer, registered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		identity.Owner.Bytes(),
		int16(identity.CreditTier),
		int16(identity.IncomeBand),
		common.Hash(identity.DataPointer).Bytes(),
		identity.RegisteredAt,
		identity.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, owner common.Address) (*models.Identity, error) {
	query := `
		SELECT owner, credit_tier, income_band, data_pointer, registered_at, updated_at
		FROM identities
		WHERE owner = $1
	`
	var (
		record           models.Identity
		ownerB, pointerB []byte
		tier, band       int16
	)
	err := s.db.QueryRowContext(ctx, query, owner.Bytes()).Scan(
		&ownerB, &tier, &band, &pointerB, &record.RegisteredAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	record.Owner = common.BytesToAddress(ownerB)
	record.CreditTier = models.CreditTier(tier)
	record.IncomeBand = models.IncomeBand(band)
	record.DataPointer = id.DataPointer(common.BytesToHash(pointerB))
	return &record, nil
}

func (s *PostgresStore) Update(ctx context.Context, identity *models.Identity) error {
	query := `
		UPDATE identities
		SET credit_tier = $2, income_band = $3, data_pointer = $4, updated_at = $5
		WHERE owner = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		identity.Owner.Bytes(),
		int16(identity.CreditTier),
		int16(identity.IncomeBand),
		common.Hash(identity.DataPointer).Bytes(),
		identity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
