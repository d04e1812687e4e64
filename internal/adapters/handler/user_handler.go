package handler

import (
	"net/http"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"go.uber.org/zap"
)

type UserHandler struct {
	identity ports.IdentityResolver
	deletion ports.DeletionService
	logger   *zap.Logger
}

func NewUserHandler(identity ports.IdentityResolver, deletion ports.DeletionService, logger *zap.Logger) *UserHandler {
	return &UserHandler{identity: identity, deletion: deletion, logger: logger}
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	actor, err := currentActor(r, h.identity)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	if err := h.deletion.DeleteByUserID(r.Context(), actor.Role, id); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User deleted", nil)
}
