package save_availability

import (
	"context"

	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability/models"
)

type AvailabilityService interface {
	SaveAvailability(ctx context.Context, doctorID string, req *models.SaveAvailabilityRequest) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
