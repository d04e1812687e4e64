package handler

import (
	"net/http"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	identity     ports.IdentityResolver
	appointments ports.AppointmentService
	logger       *zap.Logger
}

func NewAppointmentHandler(identity ports.IdentityResolver, appointments ports.AppointmentService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{identity: identity, appointments: appointments, logger: logger}
}

// CreateAppointmentRequest leaves patient_id optional so the service can
// report a missing target as a validation failure.
type CreateAppointmentRequest struct {
	DateTime  time.Time `json:"date_time" validate:"required"`
	PatientID *int64    `json:"patient_id"`
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r, h.identity)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	appointments, err := h.appointments.ListAppointments(r.Context(), actor)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Appointments retrieved", appointments)
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(h.logger, w, err)
		return
	}
	actor, err := currentActor(r, h.identity)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	appointment, err := h.appointments.CreateAppointment(r.Context(), actor, req.DateTime, req.PatientID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Appointment created", appointment)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.appointments.DeleteAppointment(r.Context(), actor, id); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Appointment deleted", nil)
}
