package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Schema:
//
//	CREATE TABLE audit_events (
//	    id           UUID PRIMARY KEY,
//	    ts           TIMESTAMPTZ NOT NULL,
//	    action       TEXT NOT NULL,
//	    owner        BYTEA NOT NULL,
//	    counterparty BYTEA,
//	    consent_id   TEXT,
//	    field        TEXT,
//	    status       TEXT,
//	    reason       TEXT,
//	    amount       TEXT
//	);
//	CREATE INDEX audit_events_owner_ts_idx ON audit_events (owner, ts);

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (id, ts, action, owner, counterparty, consent_id, field, status, reason, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		string(event.Action),
		event.Owner.Bytes(),
		event.Counterparty.Bytes(),
		event.ConsentID,
		event.Field,
		event.Status,
		event.Reason,
		event.Amount,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner common.Address) ([]Event, error) {
	query := `
		SELECT id, ts, action, owner, counterparty, consent_id, field, status, reason, amount
		FROM audit_events
		WHERE owner = $1
		ORDER BY ts
	`
	rows, err := s.db.QueryContext(ctx, query, owner.Bytes())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e                   Event
			action              string
			ownerB, counterpart []byte
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &action, &ownerB, &counterpart, &e.ConsentID, &e.Field, &e.Status, &e.Reason, &e.Amount); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(action)
		e.Owner = common.BytesToAddress(ownerB)
		e.Counterparty = common.BytesToAddress(counterpart)
		events = append(events, e)
	}
	return events, rows.Err()
}
