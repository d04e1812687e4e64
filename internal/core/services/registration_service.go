package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegistrationService struct {
	userRepo    ports.UserRepository
	patientRepo ports.PatientRepository
	logger      *zap.Logger
}

var _ ports.RegistrationService = (*RegistrationService)(nil)

func NewRegistrationService(
	userRepo ports.UserRepository,
	patientRepo ports.PatientRepository,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		logger:      logger,
	}
}

// Register creates the patient record first and then the USER account that
// owns it.
func (s *RegistrationService) Register(
	ctx context.Context,
	username, password, name string,
	birthDate time.Time,
) (*domain.User, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user with username %s already exists: %w", username, domain.ErrConflict)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.Save(ctx, domain.Patient{Name: name, BirthDate: birthDate})
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Save(ctx, domain.User{
		Username:        username,
		PasswordHash:    string(hash),
		Role:            domain.RoleUser,
		LinkedPatientID: &patient.ID,
	})
	if err != nil {
		// Leave no patient without an owner behind.
		if delErr := s.patientRepo.DeleteByID(ctx, patient.ID); delErr != nil {
			s.logger.Error("failed to remove patient after user save failed",
				zap.Int64("patient_id", patient.ID), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("patient_id", patient.ID),
	)
	return user, nil
}

// EnsureAdmin creates an ADMIN account with no linked patient unless the
// username is already taken.
func (s *RegistrationService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	admin, err := s.userRepo.Save(ctx, domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.Int64("user_id", admin.ID), zap.String("username", username))
	return nil
}

// bcrypt refuses inputs over 72 bytes. The limit counts bytes, not runes.
const maxPasswordBytes = 72

func hashPassword(password string) ([]byte, error) {
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password exceeds %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
