package book_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/integrations/doctorservice"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// Create условная вставка: ErrConflict, если слот уже занят
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// FreeSlotsResolver источник свободных слотов врача
type FreeSlotsResolver interface {
	ResolveFreeSlots(ctx context.Context, doctorID string, date time.Time) ([]types.TimeString, error)
	SlotDurationMinutes() int
}

// DoctorDirectory справочник врачей
type DoctorDirectory interface {
	GetDoctor(ctx context.Context, doctorID string) (*doctorservice.Doctor, error)
}

// Locker блокировка по ключу врача
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс для метрик бронирования
type MetricsRecorder interface {
	ObserveBooking(result string)
	ObserveLockWait(seconds float64)
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
