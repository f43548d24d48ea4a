package remove_unavailable_date

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability/models"
)

type AvailabilityService interface {
	RemoveUnavailableDate(ctx context.Context, doctorID string, date time.Time) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
