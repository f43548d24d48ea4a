package get_doctor_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/appointments"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/appointments/models"
)

const (
	msgMissingDate   = "дата обязательна"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter = "некорректный фильтр по статусу"
)

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

// Handle GET /api/v1/doctors/{doctorId}/appointments
// Query params: date (required, YYYY-MM-DD), status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /doctors/{id}/appointments - Missing date: doctor_id=%s", doctorID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/appointments - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var statusPtr *string
	if status := query.Get("status"); status != "" {
		statusPtr = &status
	}

	serviceReq := &models.GetDoctorAppointmentsRequest{
		DoctorID: doctorID,
		Date:     date,
		Status:   statusPtr,
	}

	result, err := h.service.GetDoctorAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/appointments - Invalid filter: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		case errors.Is(err, appointments.ErrStorageUnavailable):
			h.logger.Warn("GET /doctors/{id}/appointments - Storage unavailable: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /doctors/{id}/appointments - Failed to get appointments: doctor_id=%s, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/appointments - Appointments retrieved: doctor_id=%s, date=%s, count=%d",
		doctorID, dateStr, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result.Appointments)
}
