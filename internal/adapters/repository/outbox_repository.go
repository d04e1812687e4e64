package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// OutboxRepository writes domain events to outbox_events. The insert fires
// the notify trigger the relay listens on.
type OutboxRepository struct {
	db *sql.DB
}

var _ ports.EventRecorder = (*OutboxRepository)(nil)

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Record(ctx context.Context, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload) VALUES ($1, $2, $3)",
		uuid.NewString(), eventType, body,
	)
	return err
}
