package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"go.uber.org/zap"
)

const birthDateLayout = "2006-01-02"

type RegistrationHandler struct {
	registrationService ports.RegistrationService
	logger              *zap.Logger
}

func NewRegistrationHandler(registration ports.RegistrationService, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registration, logger: logger}
}

type RegistrationRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Name      string `json:"name" validate:"required,max=200"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
}

type RegistrationResponse struct {
	UserID    int64 `json:"user_id"`
	PatientID int64 `json:"patient_id"`
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(h.logger, w, err)
		return
	}

	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		writeError(h.logger, w, fmt.Errorf("%w: birth_date", domain.ErrValidation))
		return
	}
	if birthDate.After(time.Now()) {
		writeError(h.logger, w, fmt.Errorf("%w: birth_date lies in the future", domain.ErrValidation))
		return
	}

	user, err := h.registrationService.Register(r.Context(), req.Username, req.Password, req.Name, birthDate)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	resp := RegistrationResponse{UserID: user.ID}
	if user.LinkedPatientID != nil {
		resp.PatientID = *user.LinkedPatientID
	}
	writeSuccess(w, http.StatusCreated, "Registration successful", resp)
}
