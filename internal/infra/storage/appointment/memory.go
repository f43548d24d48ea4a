package appointment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// MemoryStore хранилище записей в памяти процесса.
// Проверка занятости слота и вставка выполняются под одной блокировкой,
// что даёт ту же гарантию, что и уникальный индекс в PostgreSQL.
type MemoryStore struct {
	mu           sync.RWMutex
	appointments map[string]*domain.Appointment
	occupied     map[domain.SlotKey]string
	now          func() time.Time
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		appointments: make(map[string]*domain.Appointment),
		occupied:     make(map[domain.SlotKey]string),
		now:          time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at, err := types.NewTimeStringFromString(appointment.Time.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}

	stored := clone(appointment)
	stored.Date = domain.DateOnly(stored.Date)
	stored.Time = at
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	key := stored.SlotKey()
	if stored.IsOccupying() {
		if _, taken := s.occupied[key]; taken {
			return nil, ErrConflict
		}
	}

	now := s.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.appointments[stored.ID] = stored
	if stored.IsOccupying() {
		s.occupied[key] = stored.ID
	}

	return clone(stored), nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	appointment, ok := s.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return clone(appointment), nil
}

func (s *MemoryStore) GetByDoctorAndDate(ctx context.Context, doctorID string, date time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	day := domain.DateOnly(date)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.DoctorID != doctorID || !a.Date.Equal(day) || !statusMatches(a.Status, statuses) {
			continue
		}
		result = append(result, clone(a))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Time.IsBefore(result[j].Time)
	})

	return result, nil
}

func (s *MemoryStore) GetByPatient(ctx context.Context, patientID string, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.PatientID != patientID || (status != nil && a.Status != *status) {
			continue
		}
		result = append(result, clone(a))
	}

	// Новые сначала, как в PostgreSQL-реализации
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].Time.IsAfter(result[j].Time)
	})

	return result, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	appointment, ok := s.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}

	key := appointment.SlotKey()
	wasOccupying := appointment.IsOccupying()
	willOccupy := status.IsOccupying()

	if willOccupy && !wasOccupying {
		if _, taken := s.occupied[key]; taken {
			return ErrConflict
		}
	}

	appointment.Status = status
	appointment.UpdatedAt = s.now()

	switch {
	case wasOccupying && !willOccupy:
		delete(s.occupied, key)
	case willOccupy && !wasOccupying:
		s.occupied[key] = appointment.ID
	}

	return nil
}

func statusMatches(status domain.AppointmentStatus, statuses []domain.AppointmentStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func clone(a *domain.Appointment) *domain.Appointment {
	c := *a
	if a.Notes != nil {
		notes := *a.Notes
		c.Notes = &notes
	}
	return &c
}
