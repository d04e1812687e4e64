package handler

import (
	"net/http"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/adapters/middleware"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
)

// currentActor resolves the authenticated principal to its user record.
func currentActor(r *http.Request, identity ports.IdentityResolver) (domain.Actor, error) {
	principal, ok := middleware.Principal(r.Context())
	if !ok {
		return domain.Actor{}, domain.ErrUnknownPrincipal
	}
	return identity.Resolve(r.Context(), principal)
}
