package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-DoctorScheduling/internal/infra/storage/availability"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// ResolverOptions параметры сетки слотов
type ResolverOptions struct {
	SlotDurationMinutes int
	Hours               domain.BusinessHours
	HonorCustomRanges   bool
	MinNoticeMinutes    int
}

// DefaultResolverOptions 30-минутные слоты в 09:00-17:00
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
		Hours:               domain.DefaultBusinessHours(),
		HonorCustomRanges:   true,
		MinNoticeMinutes:    domain.DefaultMinBookingNoticeMinutes,
	}
}

// Resolver вычисляет свободные слоты врача на конкретную дату.
// Результат всегда пересчитывается по текущему состоянию хранилищ и не кэшируется.
type Resolver struct {
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	metrics          MetricsRecorder
	timeProvider     TimeProvider
	opts             ResolverOptions
	logger           Logger
}

// NewResolver создает новый экземпляр резолвера
func NewResolver(
	availabilityRepo AvailabilityRepository,
	appointmentRepo AppointmentRepository,
	metrics MetricsRecorder,
	opts ResolverOptions,
	logger Logger,
) *Resolver {
	return &Resolver{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		opts:             opts,
		logger:           logger,
	}
}

// SetTimeProvider подменяет источник текущего времени
func (r *Resolver) SetTimeProvider(tp TimeProvider) {
	r.timeProvider = tp
}

// SlotDurationMinutes длительность слота, с которой работает резолвер
func (r *Resolver) SlotDurationMinutes() int {
	return r.opts.SlotDurationMinutes
}

// ResolveFreeSlots возвращает свободные слоты врача на дату по возрастанию
func (r *Resolver) ResolveFreeSlots(ctx context.Context, doctorID string, date time.Time) ([]types.TimeString, error) {
	plan, err := r.ResolveDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	return plan.FreeTimes(), nil
}

// ResolveDay возвращает все слоты дня с их состоянием
func (r *Resolver) ResolveDay(ctx context.Context, doctorID string, date time.Time) (*domain.DayPlan, error) {
	plan, err := r.buildDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	r.metrics.ObserveFreeSlots(strings.ToLower(plan.Weekday.String()), len(plan.FreeTimes()))
	return plan, nil
}

func (r *Resolver) buildDay(ctx context.Context, doctorID string, date time.Time) (*domain.DayPlan, error) {
	date = domain.DateOnly(date)
	now := r.timeProvider.Now()

	plan := &domain.DayPlan{
		DoctorID: doctorID,
		Date:     date,
		Weekday:  date.Weekday(),
		Slots:    []domain.DaySlot{},
	}

	// 1. Расписание врача или расписание по умолчанию
	availability, err := r.availabilityRepo.Get(ctx, doctorID)
	switch {
	case errors.Is(err, availabilityRepo.ErrAvailabilityNotFound):
		availability = &domain.DoctorAvailability{
			DoctorID: doctorID,
			Schedule: domain.DefaultWeeklySchedule(r.opts.Hours),
		}
		plan.UsesDefault = true
	case err != nil:
		r.logger.Error("ResolveDay: failed to get availability for doctor=%s: %v", doctorID, err)
		return nil, fmt.Errorf("%w: ResolveDay - get availability: %v", ErrStorageUnavailable, err)
	}

	// 2. День-исключение перекрывает недельное расписание целиком
	if availability.IsUnavailableOn(date) {
		plan.Blocked = true
		return plan, nil
	}

	// 3. Кандидаты по расписанию дня недели
	candidates := GenerateDaySlots(
		availability.Schedule.Day(plan.Weekday),
		r.opts.SlotDurationMinutes,
		r.opts.Hours,
		r.opts.HonorCustomRanges,
	)
	if len(candidates) == 0 {
		return plan, nil
	}

	// 4. Занятые слоты
	appointments, err := r.appointmentRepo.GetByDoctorAndDate(ctx, doctorID, date, domain.OccupyingStatuses)
	if err != nil {
		r.logger.Error("ResolveDay: failed to get appointments for doctor=%s, date=%s: %v",
			doctorID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ResolveDay - get appointments: %v", ErrStorageUnavailable, err)
	}

	occupied := make(map[types.TimeString]struct{}, len(appointments))
	for _, a := range appointments {
		if a.IsOccupying() {
			occupied[a.Time] = struct{}{}
		}
	}

	isPast := r.pastFilter(date, now)

	plan.Slots = make([]domain.DaySlot, 0, len(candidates))
	for _, slot := range candidates {
		state := domain.SlotFree
		if isPast(slot) {
			state = domain.SlotPast
		} else if _, ok := occupied[slot]; ok {
			state = domain.SlotBooked
		}
		plan.Slots = append(plan.Slots, domain.DaySlot{
			Time:            slot,
			DurationMinutes: r.opts.SlotDurationMinutes,
			State:           state,
		})
	}

	return plan, nil
}

// pastFilter возвращает предикат для слотов, которые уже нельзя забронировать.
// Вчерашние и более ранние даты прошли целиком; на сегодня отсекаются слоты,
// начинающиеся раньше now + MinNoticeMinutes.
func (r *Resolver) pastFilter(date, now time.Time) func(types.TimeString) bool {
	today := domain.DateOnly(now)

	switch {
	case date.Before(today):
		return func(types.TimeString) bool { return true }
	case date.After(today):
		return func(types.TimeString) bool { return false }
	}

	minAllowed, err := types.NewTimeString(now).AddMinutes(r.opts.MinNoticeMinutes)
	if err != nil {
		// минимальное время записи выходит за пределы суток
		return func(types.TimeString) bool { return true }
	}

	return func(slot types.TimeString) bool {
		return slot.IsBefore(minAllowed)
	}
}
