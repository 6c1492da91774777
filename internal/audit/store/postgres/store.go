package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"regdesk/internal/audit"
)

// Store persists audit events in PostgreSQL so the trail survives desk
// restarts. Schema is a single append-only table; the worker is the only
// writer.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the audit table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id             UUID PRIMARY KEY,
			action         TEXT NOT NULL,
			participant_id TEXT NOT NULL,
			actor          TEXT NOT NULL DEFAULT '',
			detail         TEXT NOT NULL DEFAULT '',
			request_id     TEXT NOT NULL DEFAULT '',
			occurred_at    TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS audit_events_participant_idx
			ON audit_events (participant_id, occurred_at);
	`)
	if err != nil {
		return fmt.Errorf("migrate audit_events: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, action, participant_id, actor, detail, request_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, event.ID, string(event.Action), event.ParticipantID, event.Actor, event.Detail, event.RequestID, event.Timestamp)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByParticipant(ctx context.Context, participantID string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, participant_id, actor, detail, request_id, occurred_at
		FROM audit_events
		WHERE participant_id = $1
		ORDER BY occurred_at
	`, participantID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var event audit.Event
		var action string
		if err := rows.Scan(&event.ID, &action, &event.ParticipantID, &event.Actor,
			&event.Detail, &event.RequestID, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = audit.Action(action)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
