package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/policy"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/metrics"
	"go.uber.org/zap"
)

type AppointmentService struct {
	appointmentRepo ports.AppointmentRepository
	patientRepo     ports.PatientRepository
	events          ports.EventRecorder
	logger          *zap.Logger
}

var _ ports.AppointmentService = (*AppointmentService)(nil)

func NewAppointmentService(
	appointmentRepo ports.AppointmentRepository,
	patientRepo ports.PatientRepository,
	events ports.EventRecorder,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		events:          events,
		logger:          logger,
	}
}

// ListAppointments filters a full scan in memory. A user with no linked
// patient gets an empty list.
func (s *AppointmentService) ListAppointments(ctx context.Context, actor domain.Actor) ([]domain.Appointment, error) {
	all, err := s.appointmentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if actor.Role.IsAdmin() {
		return all, nil
	}

	own := make([]domain.Appointment, 0)
	if actor.LinkedPatientID == nil {
		return own, nil
	}
	for _, a := range all {
		if a.PatientID == *actor.LinkedPatientID {
			own = append(own, a)
		}
	}
	return own, nil
}

// CreateAppointment binds the appointment to the patient loaded from the
// store; ownership is checked against that patient, never the request.
func (s *AppointmentService) CreateAppointment(
	ctx context.Context,
	actor domain.Actor,
	dateTime time.Time,
	targetPatientID *int64,
) (*domain.Appointment, error) {
	if targetPatientID == nil {
		return nil, fmt.Errorf("%w: patient id must be provided", domain.ErrValidation)
	}

	patient, err := s.patientRepo.FindByID(ctx, *targetPatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient %d: %w", *targetPatientID, domain.ErrPatientNotFound)
	}

	if !policy.Owns(actor, patient.ID) {
		metrics.AuthorizationDenials.WithLabelValues("appointment.create").Inc()
		s.logger.Warn("appointment create denied",
			zap.Int64("actor_id", actor.ID),
			zap.Int64("patient_id", patient.ID),
		)
		return nil, fmt.Errorf("create appointment for patient %d: %w", patient.ID, domain.ErrForbidden)
	}

	saved, err := s.appointmentRepo.Save(ctx, domain.Appointment{
		DateTime:  dateTime,
		PatientID: patient.ID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment created",
		zap.Int64("appointment_id", saved.ID),
		zap.Int64("patient_id", saved.PatientID),
		zap.Int64("actor_id", actor.ID),
	)
	s.record(ctx, ports.EventAppointmentCreated, ports.AppointmentEvent{
		AppointmentID: saved.ID,
		PatientID:     saved.PatientID,
		DateTime:      saved.DateTime,
		ActorID:       actor.ID,
	})
	return saved, nil
}

func (s *AppointmentService) DeleteAppointment(ctx context.Context, actor domain.Actor, appointmentID int64) error {
	appointment, err := s.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return fmt.Errorf("appointment %d: %w", appointmentID, domain.ErrNotFound)
	}

	if !policy.Owns(actor, appointment.PatientID) {
		metrics.AuthorizationDenials.WithLabelValues("appointment.delete").Inc()
		s.logger.Warn("appointment delete denied",
			zap.Int64("actor_id", actor.ID),
			zap.Int64("appointment_id", appointmentID),
		)
		return fmt.Errorf("delete appointment %d: %w", appointmentID, domain.ErrForbidden)
	}

	if err := s.appointmentRepo.DeleteByID(ctx, appointmentID); err != nil {
		return fmt.Errorf("delete appointment %d: %w", appointmentID, err)
	}

	s.logger.Info("appointment deleted",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("actor_id", actor.ID),
	)
	s.record(ctx, ports.EventAppointmentDeleted, ports.AppointmentEvent{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DateTime:      appointment.DateTime,
		ActorID:       actor.ID,
	})
	return nil
}

func (s *AppointmentService) record(ctx context.Context, eventType string, payload any) {
	if err := s.events.Record(ctx, eventType, payload); err != nil {
		s.logger.Error("failed to record outbox event", zap.String("type", eventType), zap.Error(err))
	}
}
