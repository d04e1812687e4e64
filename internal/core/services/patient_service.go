package services

import (
	"context"
	"fmt"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/policy"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/metrics"
	"go.uber.org/zap"
)

type PatientService struct {
	patientRepo ports.PatientRepository
	logger      *zap.Logger
}

var _ ports.PatientService = (*PatientService)(nil)

func NewPatientService(patientRepo ports.PatientRepository, logger *zap.Logger) *PatientService {
	return &PatientService{patientRepo: patientRepo, logger: logger}
}

// ListPatients returns every patient for an admin and at most the linked
// patient for anyone else.
func (s *PatientService) ListPatients(ctx context.Context, actor domain.Actor) ([]domain.Patient, error) {
	if actor.Role.IsAdmin() {
		return s.patientRepo.FindAll(ctx)
	}

	if actor.LinkedPatientID == nil {
		return []domain.Patient{}, nil
	}
	patient, err := s.patientRepo.FindByID(ctx, *actor.LinkedPatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return []domain.Patient{}, nil
	}
	return []domain.Patient{*patient}, nil
}

func (s *PatientService) GetPatient(ctx context.Context, actor domain.Actor, patientID int64) (*domain.Patient, error) {
	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient %d: %w", patientID, domain.ErrNotFound)
	}

	if !policy.Owns(actor, patient.ID) {
		metrics.AuthorizationDenials.WithLabelValues("patient.get").Inc()
		s.logger.Warn("patient read denied",
			zap.Int64("actor_id", actor.ID),
			zap.Int64("patient_id", patient.ID),
		)
		return nil, fmt.Errorf("patient %d: %w", patientID, domain.ErrForbidden)
	}
	return patient, nil
}
