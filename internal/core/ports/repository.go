package ports

import (
	"context"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
)

// Find* methods return (nil, nil) when the record does not exist; the
// services decide what absence means. Delete* methods return
// domain.ErrNotFound when nothing was removed.

type PatientRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Patient, error)
	FindAll(ctx context.Context) ([]domain.Patient, error)
	Save(ctx context.Context, patient domain.Patient) (*domain.Patient, error)
	DeleteByID(ctx context.Context, id int64) error
}

type AppointmentRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Appointment, error)
	FindAll(ctx context.Context) ([]domain.Appointment, error)
	Save(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error)
	DeleteByID(ctx context.Context, id int64) error
	// DeleteAll removes the given appointments; an empty slice is a no-op.
	DeleteAll(ctx context.Context, appointments []domain.Appointment) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Save(ctx context.Context, user domain.User) (*domain.User, error)
	Delete(ctx context.Context, user domain.User) error
	// FindOwningUserID is the patient -> user reverse lookup.
	FindOwningUserID(ctx context.Context, patientID int64) (int64, bool, error)
}
