package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
)

// AvailabilityRepository интерфейс хранилища расписаний врачей
type AvailabilityRepository interface {
	Get(ctx context.Context, doctorID string) (*domain.DoctorAvailability, error)
	Save(ctx context.Context, availability *domain.DoctorAvailability) error
}

// AppointmentRepository интерфейс хранилища записей, нужный для расчёта занятости
type AppointmentRepository interface {
	GetByDoctorAndDate(ctx context.Context, doctorID string, date time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
}

// Locker блокировка по ключу врача
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// MetricsRecorder интерфейс для метрик резолвера
type MetricsRecorder interface {
	ObserveFreeSlots(weekday string, count int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
