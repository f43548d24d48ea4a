package add_unavailable_date

import (
	"context"

	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability/models"
)

type AvailabilityService interface {
	AddUnavailableDate(ctx context.Context, doctorID string, req *models.UnavailableDateRequest) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
