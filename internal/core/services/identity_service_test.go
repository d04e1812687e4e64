package services_test

import (
	"context"
	"testing"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/services"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	c := mocks.NewClinic()
	c.SeedPatientWithUser(3, 7, "user1")
	c.SeedAdmin(1, "admin")
	resolver := services.NewIdentityResolver(c.Users, zap.NewNop())
	ctx := context.Background()

	t.Run("user_with_patient", func(t *testing.T) {
		actor, err := resolver.Resolve(ctx, "user1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), actor.ID)
		assert.Equal(t, domain.RoleUser, actor.Role)
		require.NotNil(t, actor.LinkedPatientID)
		assert.Equal(t, int64(7), *actor.LinkedPatientID)
	})

	t.Run("admin_without_patient", func(t *testing.T) {
		actor, err := resolver.Resolve(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, actor.Role)
		assert.Nil(t, actor.LinkedPatientID)
	})

	t.Run("unknown_principal", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUnknownPrincipal)
	})

	t.Run("store_error_is_not_unknown_principal", func(t *testing.T) {
		c.Users.FindByUsernameError = context.DeadlineExceeded
		defer func() { c.Users.FindByUsernameError = nil }()

		_, err := resolver.Resolve(ctx, "user1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, domain.ErrUnknownPrincipal)
	})
}
