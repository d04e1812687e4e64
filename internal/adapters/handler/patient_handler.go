package handler

import (
	"net/http"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"go.uber.org/zap"
)

type PatientHandler struct {
	identity ports.IdentityResolver
	patients ports.PatientService
	deletion ports.DeletionService
	logger   *zap.Logger
}

func NewPatientHandler(
	identity ports.IdentityResolver,
	patients ports.PatientService,
	deletion ports.DeletionService,
	logger *zap.Logger,
) *PatientHandler {
	return &PatientHandler{identity: identity, patients: patients, deletion: deletion, logger: logger}
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r, h.identity)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	patients, err := h.patients.ListPatients(r.Context(), actor)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Patients retrieved", patients)
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	patient, err := h.patients.GetPatient(r.Context(), actor, id)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Patient retrieved", patient)
}

// Delete removes the patient together with its owning user and appointments.
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.deletion.DeleteByPatientID(r.Context(), actor.Role, id); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Patient deleted", nil)
}
