package services

import (
	"context"
	"fmt"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"go.uber.org/zap"
)

type IdentityResolver struct {
	userRepo ports.UserRepository
	logger   *zap.Logger
}

var _ ports.IdentityResolver = (*IdentityResolver)(nil)

func NewIdentityResolver(userRepo ports.UserRepository, logger *zap.Logger) *IdentityResolver {
	return &IdentityResolver{userRepo: userRepo, logger: logger}
}

// Resolve maps an authenticated principal name onto its Actor. A principal
// with no user record is a server fault, not a client error.
func (r *IdentityResolver) Resolve(ctx context.Context, principalName string) (domain.Actor, error) {
	user, err := r.userRepo.FindByUsername(ctx, principalName)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("resolve principal %q: %w", principalName, err)
	}
	if user == nil {
		r.logger.Error("authenticated principal has no user record", zap.String("principal", principalName))
		return domain.Actor{}, fmt.Errorf("principal %q: %w", principalName, domain.ErrUnknownPrincipal)
	}
	return domain.ActorFromUser(user), nil
}
