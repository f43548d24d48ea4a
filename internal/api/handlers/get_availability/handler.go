package get_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability"
)

const msgInvalidDoctorID = "некорректный ID врача"

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

// Handle GET /api/v1/doctors/{doctorId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]

	result, err := h.service.GetAvailability(r.Context(), doctorID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/availability - Invalid doctor ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDoctorID)

		case errors.Is(err, availability.ErrStorageUnavailable):
			h.logger.Warn("GET /doctors/{id}/availability - Storage unavailable: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /doctors/{id}/availability - Failed to get availability: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/availability - Availability retrieved: doctor_id=%s, default=%t",
		doctorID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
