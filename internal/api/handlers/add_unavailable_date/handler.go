package add_unavailable_date

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректный день-исключение: ожидается дата YYYY-MM-DD и тип vacation, sick, conference или other"
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

// Handle POST /api/v1/doctors/{doctorId}/unavailable-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]

	var req models.UnavailableDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /doctors/{id}/unavailable-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddUnavailableDate(r.Context(), doctorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("POST /doctors/{id}/unavailable-dates - Invalid data: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, availability.ErrStorageUnavailable):
			h.logger.Warn("POST /doctors/{id}/unavailable-dates - Storage unavailable: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /doctors/{id}/unavailable-dates - Failed to add date: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /doctors/{id}/unavailable-dates - Date blocked: doctor_id=%s, date=%s", doctorID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
