package get_free_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DoctorScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/integrations/doctorservice"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability/models"
)

const (
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDoctorNotFound = "врач не найден"
)

type Handler struct {
	resolver FreeSlotsResolver
	doctors  DoctorDirectory
	logger   Logger
}

func NewHandler(resolver FreeSlotsResolver, doctors DoctorDirectory, logger Logger) *Handler {
	return &Handler{
		resolver: resolver,
		doctors:  doctors,
		logger:   logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/free-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /doctors/{id}/free-slots - Missing date: doctor_id=%s", doctorID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/free-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Врач должен существовать до расчёта слотов
	if _, err := h.doctors.GetDoctor(r.Context(), doctorID); err != nil {
		if errors.Is(err, doctorservice.ErrDoctorNotFound) {
			h.logger.Warn("GET /doctors/{id}/free-slots - Doctor not found: doctor_id=%s", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)
			return
		}

		h.logger.Warn("GET /doctors/{id}/free-slots - Doctor directory unavailable: doctor_id=%s, error=%v", doctorID, err)
		handlers.RespondServiceUnavailable(w)
		return
	}

	plan, err := h.resolver.ResolveDay(r.Context(), doctorID, date)
	if err != nil {
		if errors.Is(err, availability.ErrStorageUnavailable) {
			h.logger.Warn("GET /doctors/{id}/free-slots - Storage unavailable: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondServiceUnavailable(w)
			return
		}

		h.logger.Error("GET /doctors/{id}/free-slots - Failed to resolve slots: doctor_id=%s, error=%v", doctorID, err)
		handlers.RespondInternalError(w)
		return
	}

	response := models.FromDomainDayPlan(plan)

	h.logger.Info("GET /doctors/{id}/free-slots - Slots resolved: doctor_id=%s, date=%s, free=%d",
		doctorID, dateStr, len(response.FreeSlots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
