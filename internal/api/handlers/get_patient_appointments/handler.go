package get_patient_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/appointments"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/appointments/models"
)

const msgInvalidFilter = "некорректный фильтр по статусу"

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/patients/{patientId}/appointments
// Query params: status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patientId"]

	// Получаем status из query параметров (опционально)
	status := r.URL.Query().Get("status")
	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}

	serviceReq := &models.GetPatientAppointmentsRequest{
		PatientID: patientID,
		Status:    statusPtr,
	}

	result, err := h.service.GetPatientAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /patients/{id}/appointments - Invalid filter: patient_id=%s, error=%v", patientID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		case errors.Is(err, appointments.ErrStorageUnavailable):
			h.logger.Warn("GET /patients/{id}/appointments - Storage unavailable: patient_id=%s, error=%v", patientID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /patients/{id}/appointments - Failed to get appointments: patient_id=%s, error=%v",
				patientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /patients/{id}/appointments - Appointments retrieved: patient_id=%s, count=%d",
		patientID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result.Appointments)
}
