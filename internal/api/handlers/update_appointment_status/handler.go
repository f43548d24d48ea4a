package update_appointment_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/appointments"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус, ожидается pending, confirmed, completed или cancelled"
	msgNotFound           = "запись не найдена"
	msgInvalidTransition  = "недопустимая смена статуса записи"
	msgSlotUnavailable    = "время записи уже занято"
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

// Handle PATCH /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), appointmentID, &req)
	if err != nil {
		handleError(w, h.logger, "PATCH /appointments/{id}/status", appointmentID, err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status updated: id=%s, status=%s", appointmentID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func handleError(w http.ResponseWriter, logger Logger, route, appointmentID string, err error) {
	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		logger.Warn("%s - Appointment not found: id=%s", route, appointmentID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, appointments.ErrInvalidInput):
		logger.Warn("%s - Invalid input: id=%s, error=%v", route, appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidStatus)

	case errors.Is(err, appointments.ErrInvalidStatusTransition):
		logger.Warn("%s - Invalid transition: id=%s, error=%v", route, appointmentID, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, appointments.ErrSlotUnavailable):
		logger.Warn("%s - Slot already taken: id=%s", route, appointmentID)
		handlers.RespondConflict(w, msgSlotUnavailable)

	case errors.Is(err, appointments.ErrStorageUnavailable):
		logger.Warn("%s - Storage unavailable: id=%s, error=%v", route, appointmentID, err)
		handlers.RespondServiceUnavailable(w)

	default:
		logger.Error("%s - Failed to update status: id=%s, error=%v", route, appointmentID, err)
		handlers.RespondInternalError(w)
	}
}
