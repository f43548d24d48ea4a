package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-DoctorScheduling/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/appointments/models"
)

// Service сервис для работы с записями на приём
type Service struct {
	appointmentRepo AppointmentRepository
	locker          Locker
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	locker Locker,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		locker:          locker,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appointment, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetPatientAppointments получает записи пациента, опционально по статусу.
// Сначала самые поздние
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: fetching appointments for patient=%s, status=%v", req.PatientID, req.Status)

	if req.PatientID == "" {
		return nil, fmt.Errorf("%w: patient id is required", ErrInvalidInput)
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		parsed, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetPatientAppointments: invalid status=%s for patient=%s", *req.Status, req.PatientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &parsed
	}

	appointments, err := s.appointmentRepo.GetByPatient(ctx, req.PatientID, status)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%s: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrStorageUnavailable, err)
	}

	s.logger.Info("GetPatientAppointments: fetched %d appointments for patient=%s", len(appointments), req.PatientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetDoctorAppointments получает записи врача на дату, отсортированные по времени
func (s *Service) GetDoctorAppointments(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDoctorAppointments: fetching appointments for doctor=%s, date=%s, status=%v",
		req.DoctorID, req.Date.Format(domain.DateFormat), req.Status)

	if req.DoctorID == "" {
		return nil, fmt.Errorf("%w: doctor id is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	var statuses []domain.AppointmentStatus
	if req.Status != nil {
		parsed, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetDoctorAppointments: invalid status=%s for doctor=%s", *req.Status, req.DoctorID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		statuses = []domain.AppointmentStatus{parsed}
	}

	appointments, err := s.appointmentRepo.GetByDoctorAndDate(ctx, req.DoctorID, domain.DateOnly(req.Date), statuses)
	if err != nil {
		s.logger.Error("GetDoctorAppointments: repository error for doctor=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAppointments - repository error: %v", ErrStorageUnavailable, err)
	}

	s.logger.Info("GetDoctorAppointments: fetched %d appointments for doctor=%s", len(appointments), req.DoctorID)
	return models.FromDomainAppointmentList(appointments), nil
}

// UpdateStatus переводит запись в новый статус.
// Допустимы pending -> confirmed|cancelled и confirmed -> completed|cancelled
func (s *Service) UpdateStatus(ctx context.Context, id string, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s", id, req.Status)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	return s.transition(ctx, "UpdateStatus", id, newStatus)
}

// Cancel отменяет запись; слот снова становится свободным
func (s *Service) Cancel(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s", id)
	return s.transition(ctx, "Cancel", id, domain.StatusCancelled)
}

// Вспомогательные методы

// transition проверяет переход и меняет статус под блокировкой врача,
// чтобы параллельные смены статуса не обходили правила переходов
func (s *Service) transition(ctx context.Context, op, id string, newStatus domain.AppointmentStatus) (*models.AppointmentResponse, error) {
	current, err := s.get(ctx, op, id)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lock.DoctorKey(current.DoctorID))
	if err != nil {
		s.logger.Error("%s: failed to acquire lock for doctor=%s: %v", op, current.DoctorID, err)
		return nil, fmt.Errorf("%w: %s - acquire lock: %v", ErrStorageUnavailable, op, err)
	}
	defer release()

	// перечитываем под блокировкой
	current, err = s.get(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("%s: appointment id=%s cannot move from %s to %s", op, id, current.Status, newStatus)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, newStatus)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("%s: appointment id=%s not found during update", op, id)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrConflict):
			s.logger.Warn("%s: slot of appointment id=%s is taken", op, id)
			return nil, ErrSlotUnavailable
		default:
			s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrStorageUnavailable, op, err)
		}
	}

	updated, err := s.get(ctx, op, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: appointment id=%s moved from %s to %s", op, id, current.Status, newStatus)
	return models.FromDomainAppointment(updated), nil
}

func (s *Service) get(ctx context.Context, op, id string) (*domain.Appointment, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: appointment id is required", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrStorageUnavailable, op, err)
	}
	return appointment, nil
}
