package services_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/services"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func setupAuth(t *testing.T) (*services.AuthService, *mocks.Clinic, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)

	c := mocks.NewClinic()
	c.Users.SeedUser(domain.User{ID: 3, Username: "parent", PasswordHash: string(hash), Role: domain.RoleUser, LinkedPatientID: mocks.Int64(7)})

	return services.NewAuthService(c.Users, c.Tokens, key, time.Hour, zap.NewNop()), c, key
}

func TestAuthService_Login(t *testing.T) {
	svc, _, key := setupAuth(t)

	signed, err := svc.Login(context.Background(), "parent", "correct")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)

	assert.Equal(t, "parent", claims["sub"])
	assert.Equal(t, float64(3), claims["uid"])
	assert.Equal(t, "USER", claims["role"])
	assert.NotEmpty(t, claims["jti"])
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _, _ := setupAuth(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong_password", username: "parent", password: "wrong"},
		{name: "unknown_user", username: "nobody", password: "correct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.Empty(t, token)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, c, _ := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, "live-token", time.Now().Add(time.Hour)))
	assert.True(t, c.Tokens.HasToken("live-token"))

	require.NoError(t, svc.Logout(ctx, "stale-token", time.Now().Add(-time.Minute)))
	assert.False(t, c.Tokens.HasToken("stale-token"))
}
