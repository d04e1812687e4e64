package services

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo   ports.UserRepository
	tokens     ports.TokenStore
	privateKey *rsa.PrivateKey
	tokenTTL   time.Duration
	logger     *zap.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	userRepo ports.UserRepository,
	tokens ports.TokenStore,
	privateKey *rsa.PrivateKey,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		privateKey: privateKey,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// Login checks the password and returns a signed RS256 token whose subject is
// the username. The uid claim carries the user ID for session revocation.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.Username,
		"uid":  user.ID,
		"role": string(user.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return signed, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.tokens.RevokeToken(ctx, tokenID, ttl)
}
