package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"credshare/internal/consent/models"
	"credshare/internal/sentinel"
	id "credshare/pkg/domain"
)

// Schema:
//
//	CREATE TABLE consents (
//	    consent_id BYTEA NOT NULL,
//	    owner      BYTEA NOT NULL,
//	    requester  BYTEA NOT NULL,
//	    status     SMALLINT NOT NULL,
//	    start_date TIMESTAMPTZ NOT NULL,
//	    end_date   TIMESTAMPTZ NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (owner, consent_id)
//	);

// PostgresStore persists consent records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed consent store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record *models.Record) error {
	query := `
		INSERT INTO consents (consent_id, owner, requester, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner, consent_id) DO UPDATE
		SET requester = EXCLUDED.requester,
		    status = EXCLUDED.status,
		    start_date = EXCLUDED.start_date,
		    end_date = EXCLUDED.end_date,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		common.Hash(record.ID).Bytes(),
		record.Owner.Bytes(),
		record.Requester.Bytes(),
		int16(record.Status),
		record.StartDate,
		record.EndDate,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save consent: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, owner common.Address, consentID id.ConsentID) (*models.Record, error) {
	query := `
		SELECT consent_id, owner, requester, status, start_date, end_date, created_at, updated_at
		FROM consents
		WHERE owner = $1 AND consent_id = $2
	`
	record, err := scanConsent(s.db.QueryRowContext(ctx, query, owner.Bytes(), common.Hash(consentID).Bytes()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find consent: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner common.Address) ([]*models.Record, error) {
	query := `
		SELECT consent_id, owner, requester, status, start_date, end_date, created_at, updated_at
		FROM consents
		WHERE owner = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, owner.Bytes())
	if err != nil {
		return nil, fmt.Errorf("list consents: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		record, err := scanConsent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsent(row rowScanner) (*models.Record, error) {
	var (
		record                       models.Record
		consentB, ownerB, requesterB []byte
		status                       int16
	)
	if err := row.Scan(&consentB, &ownerB, &requesterB, &status, &record.StartDate, &record.EndDate, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.ID = id.ConsentID(common.BytesToHash(consentB))
	record.Owner = common.BytesToAddress(ownerB)
	record.Requester = common.BytesToAddress(requesterB)
	record.Status = models.Status(status)
	return &record, nil
}
