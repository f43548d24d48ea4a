package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/infra/lock"
	availabilityRepo "github.com/m04kA/SMC-DoctorScheduling/internal/infra/storage/availability"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability/models"
)

// Service сервис управления расписанием врача и днями-исключениями
type Service struct {
	availabilityRepo AvailabilityRepository
	locker           Locker
	hours            domain.BusinessHours
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	availabilityRepo AvailabilityRepository,
	locker Locker,
	hours domain.BusinessHours,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		locker:           locker,
		hours:            hours,
		logger:           logger,
	}
}

// GetAvailability возвращает сохранённое расписание врача.
// Если врач расписание не сохранял, возвращается расписание по умолчанию (не сохраняется)
func (s *Service) GetAvailability(ctx context.Context, doctorID string) (*models.AvailabilityResponse, error) {
	s.logger.Info("GetAvailability: doctor=%s", doctorID)

	if doctorID == "" {
		return nil, fmt.Errorf("%w: doctor id is required", ErrInvalidInput)
	}

	availability, isDefault, err := s.load(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAvailability(availability, isDefault), nil
}

// SaveAvailability перезаписывает расписание и исключения врача
func (s *Service) SaveAvailability(ctx context.Context, doctorID string, req *models.SaveAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("SaveAvailability: doctor=%s, unavailableDates=%d", doctorID, len(req.UnavailableDates))

	if doctorID == "" {
		return nil, fmt.Errorf("%w: doctor id is required", ErrInvalidInput)
	}

	if err := req.Schedule.Validate(); err != nil {
		s.logger.Warn("SaveAvailability: invalid schedule for doctor=%s: %v", doctorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dates, err := models.ToDomainUnavailableDates(req.UnavailableDates)
	if err != nil {
		s.logger.Warn("SaveAvailability: invalid unavailable dates for doctor=%s: %v", doctorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	availability := &domain.DoctorAvailability{
		DoctorID:         doctorID,
		Schedule:         req.Schedule.Normalize(),
		UnavailableDates: domain.NormalizeUnavailableDates(dates),
	}

	var saved *domain.DoctorAvailability
	err = s.withDoctorLock(ctx, doctorID, func() error {
		if err := s.availabilityRepo.Save(ctx, availability); err != nil {
			s.logger.Error("SaveAvailability: repository error for doctor=%s: %v", doctorID, err)
			return fmt.Errorf("%w: SaveAvailability - repository error: %v", ErrStorageUnavailable, err)
		}
		saved, _, err = s.load(ctx, doctorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("SaveAvailability: successfully saved availability for doctor=%s", doctorID)
	return models.FromDomainAvailability(saved, false), nil
}

// AddUnavailableDate добавляет день-исключение. Повторное добавление той же даты
// ничего не меняет. Для врача без сохранённого расписания вместе с исключением
// сохраняется расписание по умолчанию
func (s *Service) AddUnavailableDate(ctx context.Context, doctorID string, req *models.UnavailableDateRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("AddUnavailableDate: doctor=%s, date=%s, type=%s", doctorID, req.Date, req.Type)

	if doctorID == "" {
		return nil, fmt.Errorf("%w: doctor id is required", ErrInvalidInput)
	}

	date, err := models.ToDomainUnavailableDate(*req)
	if err != nil {
		s.logger.Warn("AddUnavailableDate: invalid request for doctor=%s: %v", doctorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.DoctorAvailability
	err = s.withDoctorLock(ctx, doctorID, func() error {
		availability, _, err := s.load(ctx, doctorID)
		if err != nil {
			return err
		}

		if availability.IsUnavailableOn(date.Date) {
			s.logger.Info("AddUnavailableDate: date=%s already blocked for doctor=%s",
				date.Date.Format(domain.DateFormat), doctorID)
			result = availability
			return nil
		}

		availability.UnavailableDates = domain.NormalizeUnavailableDates(append(availability.UnavailableDates, date))
		availability.Schedule = availability.Schedule.Normalize()

		if err := s.availabilityRepo.Save(ctx, availability); err != nil {
			s.logger.Error("AddUnavailableDate: repository error for doctor=%s: %v", doctorID, err)
			return fmt.Errorf("%w: AddUnavailableDate - repository error: %v", ErrStorageUnavailable, err)
		}

		result, _, err = s.load(ctx, doctorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AddUnavailableDate: doctor=%s blocked on %s", doctorID, date.Date.Format(domain.DateFormat))
	return models.FromDomainAvailability(result, false), nil
}

// RemoveUnavailableDate удаляет день-исключение
func (s *Service) RemoveUnavailableDate(ctx context.Context, doctorID string, date time.Time) (*models.AvailabilityResponse, error) {
	date = domain.DateOnly(date)
	s.logger.Info("RemoveUnavailableDate: doctor=%s, date=%s", doctorID, date.Format(domain.DateFormat))

	if doctorID == "" {
		return nil, fmt.Errorf("%w: doctor id is required", ErrInvalidInput)
	}

	var result *domain.DoctorAvailability
	err := s.withDoctorLock(ctx, doctorID, func() error {
		availability, isDefault, err := s.load(ctx, doctorID)
		if err != nil {
			return err
		}

		if isDefault || !availability.IsUnavailableOn(date) {
			s.logger.Warn("RemoveUnavailableDate: date=%s not found for doctor=%s", date.Format(domain.DateFormat), doctorID)
			return ErrUnavailableDateNotFound
		}

		kept := make([]domain.UnavailableDate, 0, len(availability.UnavailableDates))
		for _, u := range availability.UnavailableDates {
			if !domain.DateOnly(u.Date).Equal(date) {
				kept = append(kept, u)
			}
		}
		availability.UnavailableDates = kept

		if err := s.availabilityRepo.Save(ctx, availability); err != nil {
			s.logger.Error("RemoveUnavailableDate: repository error for doctor=%s: %v", doctorID, err)
			return fmt.Errorf("%w: RemoveUnavailableDate - repository error: %v", ErrStorageUnavailable, err)
		}

		result, _, err = s.load(ctx, doctorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("RemoveUnavailableDate: doctor=%s unblocked on %s", doctorID, date.Format(domain.DateFormat))
	return models.FromDomainAvailability(result, false), nil
}

// Вспомогательные методы

// load получает расписание врача или строит расписание по умолчанию
func (s *Service) load(ctx context.Context, doctorID string) (*domain.DoctorAvailability, bool, error) {
	availability, err := s.availabilityRepo.Get(ctx, doctorID)
	if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
		return &domain.DoctorAvailability{
			DoctorID:         doctorID,
			Schedule:         domain.DefaultWeeklySchedule(s.hours),
			UnavailableDates: []domain.UnavailableDate{},
		}, true, nil
	}
	if err != nil {
		s.logger.Error("load: repository error for doctor=%s: %v", doctorID, err)
		return nil, false, fmt.Errorf("%w: load - repository error: %v", ErrStorageUnavailable, err)
	}
	return availability, false, nil
}

// withDoctorLock выполняет fn под блокировкой врача, чтобы параллельные
// изменения исключений не затирали друг друга
func (s *Service) withDoctorLock(ctx context.Context, doctorID string, fn func() error) error {
	release, err := s.locker.Acquire(ctx, lock.DoctorKey(doctorID))
	if err != nil {
		s.logger.Error("withDoctorLock: failed to acquire lock for doctor=%s: %v", doctorID, err)
		return fmt.Errorf("%w: acquire lock: %v", ErrStorageUnavailable, err)
	}
	defer release()

	return fn()
}
