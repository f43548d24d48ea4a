package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	GetByPatient(ctx context.Context, patientID string, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByDoctorAndDate(ctx context.Context, doctorID string, date time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error
}

// Locker блокировка по ключу врача
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
