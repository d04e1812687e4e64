package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/policy"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/metrics"
	"go.uber.org/zap"
)

const (
	entryByUser    = "by_user"
	entryByPatient = "by_patient"
)

// DeletionService removes a user, the linked patient and the patient's
// appointments. The steps are independent repository calls with no
// surrounding transaction; a failed step is not rolled back, and repeating
// the call after success reports not found.
type DeletionService struct {
	userRepo        ports.UserRepository
	patientRepo     ports.PatientRepository
	appointmentRepo ports.AppointmentRepository
	tokens          ports.TokenStore
	events          ports.EventRecorder
	tokenTTL        time.Duration
	logger          *zap.Logger
}

var _ ports.DeletionService = (*DeletionService)(nil)

func NewDeletionService(
	userRepo ports.UserRepository,
	patientRepo ports.PatientRepository,
	appointmentRepo ports.AppointmentRepository,
	tokens ports.TokenStore,
	events ports.EventRecorder,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *DeletionService {
	return &DeletionService{
		userRepo:        userRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		tokens:          tokens,
		events:          events,
		tokenTTL:        tokenTTL,
		logger:          logger,
	}
}

// DeleteByUserID removes appointments, then the patient, then the user.
// Users without a linked patient are deleted with no cascade.
func (s *DeletionService) DeleteByUserID(ctx context.Context, actorRole domain.Role, userID int64) (err error) {
	defer func() { s.observe(entryByUser, err) }()

	if err := policy.RequireAdmin(actorRole); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}

	var removed []int64
	if user.LinkedPatientID != nil {
		patientID := *user.LinkedPatientID

		removed, err = s.deleteAppointmentsOf(ctx, patientID)
		if err != nil {
			return err
		}
		if err := s.patientRepo.DeleteByID(ctx, patientID); err != nil {
			return fmt.Errorf("delete patient %d of user %d: %w", patientID, userID, err)
		}
		s.logger.Info("cascade: patient deleted", zap.Int64("patient_id", patientID), zap.Int64("user_id", userID))
	} else {
		s.logger.Info("cascade: user has no linked patient", zap.Int64("user_id", userID))
	}

	if err := s.userRepo.Delete(ctx, *user); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	s.logger.Info("cascade: user deleted", zap.Int64("user_id", userID))

	s.afterCascade(ctx, user, removed)
	return nil
}

// DeleteByPatientID starts from the patient side: the owning user is resolved
// and removed first, then the appointments, then the patient.
func (s *DeletionService) DeleteByPatientID(ctx context.Context, actorRole domain.Role, patientID int64) (err error) {
	defer func() { s.observe(entryByPatient, err) }()

	if err := policy.RequireAdmin(actorRole); err != nil {
		return fmt.Errorf("delete patient %d: %w", patientID, err)
	}

	userID, ok, err := s.userRepo.FindOwningUserID(ctx, patientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("owner of patient %d: %w", patientID, domain.ErrNotFound)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d owning patient %d: %w", userID, patientID, domain.ErrNotFound)
	}

	if err := s.userRepo.Delete(ctx, *user); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	s.logger.Info("cascade: user deleted", zap.Int64("user_id", userID), zap.Int64("patient_id", patientID))

	removed, err := s.deleteAppointmentsOf(ctx, patientID)
	if err != nil {
		return err
	}
	if err := s.patientRepo.DeleteByID(ctx, patientID); err != nil {
		return fmt.Errorf("delete patient %d: %w", patientID, err)
	}
	s.logger.Info("cascade: patient deleted", zap.Int64("patient_id", patientID))

	s.afterCascade(ctx, user, removed)
	return nil
}

func (s *DeletionService) deleteAppointmentsOf(ctx context.Context, patientID int64) ([]int64, error) {
	all, err := s.appointmentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var doomed []domain.Appointment
	ids := make([]int64, 0)
	for _, a := range all {
		if a.PatientID == patientID {
			doomed = append(doomed, a)
			ids = append(ids, a.ID)
		}
	}

	if err := s.appointmentRepo.DeleteAll(ctx, doomed); err != nil {
		return nil, fmt.Errorf("delete appointments of patient %d: %w", patientID, err)
	}
	s.logger.Info("cascade: appointments deleted", zap.Int64("patient_id", patientID), zap.Int("count", len(ids)))
	return ids, nil
}

// afterCascade runs the best-effort follow-ups; neither failure undoes the
// deletion.
func (s *DeletionService) afterCascade(ctx context.Context, user *domain.User, removed []int64) {
	if err := s.tokens.RevokeUser(ctx, user.ID, time.Now(), s.tokenTTL); err != nil {
		s.logger.Error("failed to revoke sessions of deleted user", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	if user.LinkedPatientID == nil {
		return
	}
	evt := ports.PatientDeletedEvent{
		PatientID:      *user.LinkedPatientID,
		UserID:         user.ID,
		Username:       user.Username,
		AppointmentIDs: removed,
	}
	if err := s.events.Record(ctx, ports.EventPatientDeleted, evt); err != nil {
		s.logger.Error("failed to record outbox event", zap.String("type", ports.EventPatientDeleted), zap.Error(err))
	}
}

func (s *DeletionService) observe(entry string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrForbidden):
		outcome = "forbidden"
		metrics.AuthorizationDenials.WithLabelValues("cascade." + entry).Inc()
	case errors.Is(err, domain.ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	metrics.CascadeDeletions.WithLabelValues(entry, outcome).Inc()
}
