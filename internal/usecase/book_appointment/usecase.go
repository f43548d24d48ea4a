package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-DoctorScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-DoctorScheduling/internal/integrations/doctorservice"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/metrics"
)

// UseCase use case для записи пациента к врачу
type UseCase struct {
	appointmentRepo AppointmentRepository
	resolver        FreeSlotsResolver
	doctors         DoctorDirectory
	locker          Locker
	txManager       TransactionManager
	metrics         MetricsRecorder
	horizonMonths   int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	resolver FreeSlotsResolver,
	doctors DoctorDirectory,
	locker Locker,
	txManager TransactionManager,
	metrics MetricsRecorder,
	horizonMonths int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		resolver:        resolver,
		doctors:         doctors,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		horizonMonths:   horizonMonths,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider подменяет источник текущего времени
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case записи к врачу.
// Проверка свободного слота и вставка выполняются под блокировкой врача,
// а хранилище дополнительно отклоняет вторую занимающую запись на тот же слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("BookAppointment: doctor=%s, patient=%s, date=%s, time=%s",
		req.DoctorID, req.PatientID, req.Date.Format(domain.DateFormat), req.Time)

	defer func() {
		uc.metrics.ObserveBooking(bookingOutcome(err))
	}()

	// 1. Валидация входных данных
	r := *req
	if err := validateRequest(&r, uc.resolver.SlotDurationMinutes()); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата в пределах горизонта записи
	now := uc.timeProvider.Now()
	date := domain.DateOnly(r.Date)
	if err := validateDate(date, now, uc.horizonMonths); err != nil {
		uc.logger.Warn("BookAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 3. Врач существует
	doctor, err := uc.doctors.GetDoctor(ctx, r.DoctorID)
	if err != nil {
		if errors.Is(err, doctorservice.ErrDoctorNotFound) {
			uc.logger.Warn("BookAppointment: doctor=%s not found", r.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("BookAppointment: failed to get doctor=%s: %v", r.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrStorageUnavailable, err)
	}

	if r.Fee == 0 && doctor.ConsultationFee != nil {
		r.Fee = *doctor.ConsultationFee
	}

	// 4. Блокировка врача на время проверки и вставки
	waitStart := time.Now()
	release, err := uc.locker.Acquire(ctx, lock.DoctorKey(r.DoctorID))
	uc.metrics.ObserveLockWait(time.Since(waitStart).Seconds())
	if err != nil {
		uc.logger.Error("BookAppointment: failed to acquire lock for doctor=%s: %v", r.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to acquire doctor lock: %v", ErrStorageUnavailable, err)
	}
	defer release()

	var created *domain.Appointment

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Свободные слоты пересчитываются в момент записи
		free, err := uc.resolver.ResolveFreeSlots(txCtx, r.DoctorID, date)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to resolve free slots: %v", err)
			return fmt.Errorf("%w: failed to resolve free slots: %v", ErrStorageUnavailable, err)
		}

		if !containsTime(free, r.Time) {
			uc.logger.Warn("BookAppointment: time=%s is not free for doctor=%s on %s",
				r.Time, r.DoctorID, date.Format(domain.DateFormat))
			return ErrSlotUnavailable
		}

		// 4.2. Условная вставка в статусе pending
		appointment := &domain.Appointment{
			DoctorID:        r.DoctorID,
			PatientID:       r.PatientID,
			Date:            date,
			Time:            r.Time,
			DurationMinutes: r.DurationMinutes,
			Status:          domain.StatusPending,
			Type:            r.Type,
			Fee:             r.Fee,
			Notes:           r.Notes,
		}

		created, err = uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrConflict) {
				uc.logger.Warn("BookAppointment: slot %s %s of doctor=%s taken concurrently",
					date.Format(domain.DateFormat), r.Time, r.DoctorID)
				return ErrSlotUnavailable
			}
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrStorageUnavailable, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrStorageUnavailable) {
			return nil, err
		}
		// ошибки начала или фиксации транзакции
		uc.logger.Error("BookAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	uc.logger.Info("BookAppointment: created appointment id=%s", created.ID)

	return &Response{
		ID:              created.ID,
		DoctorID:        created.DoctorID,
		PatientID:       created.PatientID,
		Date:            created.Date,
		Time:            created.Time,
		DurationMinutes: created.DurationMinutes,
		Status:          string(created.Status),
		Type:            created.Type,
		Fee:             created.Fee,
		Notes:           created.Notes,
		CreatedAt:       created.CreatedAt,
		UpdatedAt:       created.UpdatedAt,
	}, nil
}

// bookingOutcome метка результата для метрики попыток записи
func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.BookingCreated
	case errors.Is(err, ErrSlotUnavailable):
		return metrics.BookingSlotUnavailable
	case errors.Is(err, ErrInvalidDateRange):
		return metrics.BookingInvalidDateRange
	case errors.Is(err, ErrDoctorNotFound):
		return metrics.BookingDoctorNotFound
	case errors.Is(err, ErrInvalidInput):
		return metrics.BookingInvalidInput
	default:
		return metrics.BookingStorageFailure
	}
}
