package handler

import (
	"net/http"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/adapters/middleware"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService ports.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(auth ports.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: auth, logger: logger}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(h.logger, w, err)
		return
	}

	token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", LoginResponse{Token: token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.authService.Logout(ctx, middleware.TokenID(ctx), middleware.ExpiresAt(ctx)); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Logout successful", nil)
}
