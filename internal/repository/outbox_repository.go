package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"crew-match/internal/database"
)

const (
	EventApplicationCreated = "application_created"
	EventJobAlert           = "job_alert"
)

// OutboxEvent is a pending side effect recorded in the same store as the
// state change that produced it. The engine's decision paths only append;
// dispatch and retries belong to the outbox worker.
type OutboxEvent struct {
	ID        uuid.UUID
	EventType string
	Payload   json.RawMessage
	Attempts  int
	LastError string
	CreatedAt time.Time
}

type OutboxRepository interface {
	Append(ctx context.Context, eventType string, payload any) error
	ListPending(ctx context.Context, limit int, maxAttempts int) ([]OutboxEvent, error)
	MarkDispatched(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string) error
}

type PostgresOutboxRepository struct {
	db database.DB
}

func NewPostgresOutboxRepository(db database.DB) *PostgresOutboxRepository {
	return &PostgresOutboxRepository{db: db}
}

func (r *PostgresOutboxRepository) Append(ctx context.Context, eventType string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1,$2,$3,$4)`,
		uuid.New(), eventType, b, time.Now().UTC(),
	)
	return err
}

func (r *PostgresOutboxRepository) ListPending(ctx context.Context, limit int, maxAttempts int) ([]OutboxEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, event_type, payload, attempts, COALESCE(last_error,''), created_at
		 FROM outbox_events
		 WHERE dispatched_at IS NULL AND attempts < $2
		 ORDER BY created_at
		 LIMIT $1`,
		limit, maxAttempts,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OutboxEvent, 0)
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.Payload, &ev.Attempts, &ev.LastError, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOutboxRepository) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE outbox_events SET dispatched_at = now() WHERE id = $1`, id)
	return err
}

func (r *PostgresOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE outbox_events SET attempts = attempts + 1, last_error = $2 WHERE id = $1`,
		id, cause)
	return err
}
