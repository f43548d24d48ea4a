package remove_unavailable_date

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotFound    = "день-исключение не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/doctors/{doctorId}/unavailable-dates/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID := vars["doctorId"]

	date, err := domain.ParseDate(vars["date"])
	if err != nil {
		h.logger.Warn("DELETE /doctors/{id}/unavailable-dates/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.RemoveUnavailableDate(r.Context(), doctorID, date)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrUnavailableDateNotFound):
			h.logger.Warn("DELETE /doctors/{id}/unavailable-dates/{date} - Not found: doctor_id=%s, date=%s",
				doctorID, vars["date"])
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("DELETE /doctors/{id}/unavailable-dates/{date} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, availability.ErrStorageUnavailable):
			h.logger.Warn("DELETE /doctors/{id}/unavailable-dates/{date} - Storage unavailable: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("DELETE /doctors/{id}/unavailable-dates/{date} - Failed to remove date: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /doctors/{id}/unavailable-dates/{date} - Date unblocked: doctor_id=%s, date=%s",
		doctorID, vars["date"])
	handlers.RespondJSON(w, http.StatusOK, result)
}
