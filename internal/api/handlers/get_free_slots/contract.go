package get_free_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/integrations/doctorservice"
)

type FreeSlotsResolver interface {
	ResolveDay(ctx context.Context, doctorID string, date time.Time) (*domain.DayPlan, error)
}

type DoctorDirectory interface {
	GetDoctor(ctx context.Context, doctorID string) (*doctorservice.Doctor, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
