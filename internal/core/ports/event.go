package ports

import (
	"context"
	"encoding/json"
	"time"
)

const (
	EventAppointmentCreated = "appointment.created"
	EventAppointmentDeleted = "appointment.deleted"
	EventPatientDeleted     = "patient.deleted"
)

type ClinicEvent struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type AppointmentEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	PatientID     int64     `json:"patient_id"`
	DateTime      time.Time `json:"date_time"`
	ActorID       int64     `json:"actor_id"`
}

type PatientDeletedEvent struct {
	PatientID      int64   `json:"patient_id"`
	UserID         int64   `json:"user_id"`
	Username       string  `json:"username"`
	AppointmentIDs []int64 `json:"appointment_ids"`
}

// EventRecorder appends events to the outbox.
type EventRecorder interface {
	Record(ctx context.Context, eventType string, payload any) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evt ClinicEvent) error
}

// TokenStore tracks revoked tokens and revoked users. Users are keyed by ID
// since usernames can be registered again after a deletion.
type TokenStore interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	RevokeUser(ctx context.Context, userID int64, at time.Time, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string, userID int64, issuedAt time.Time) (bool, error)
}
