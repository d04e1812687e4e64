package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type RegistrationService interface {
	Register(ctx context.Context, username, password, name string, birthDate time.Time) (*domain.User, error)
}

type IdentityResolver interface {
	Resolve(ctx context.Context, principalName string) (domain.Actor, error)
}

type AppointmentService interface {
	ListAppointments(ctx context.Context, actor domain.Actor) ([]domain.Appointment, error)
	CreateAppointment(ctx context.Context, actor domain.Actor, dateTime time.Time, targetPatientID *int64) (*domain.Appointment, error)
	DeleteAppointment(ctx context.Context, actor domain.Actor, appointmentID int64) error
}

type PatientService interface {
	ListPatients(ctx context.Context, actor domain.Actor) ([]domain.Patient, error)
	GetPatient(ctx context.Context, actor domain.Actor, patientID int64) (*domain.Patient, error)
}

type DeletionService interface {
	DeleteByUserID(ctx context.Context, actorRole domain.Role, userID int64) error
	DeleteByPatientID(ctx context.Context, actorRole domain.Role, patientID int64) error
}
