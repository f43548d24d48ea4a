package availability

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
)

// MemoryStore хранилище доступности врачей в памяти процесса
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*domain.DoctorAvailability
	now     func() time.Time
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*domain.DoctorAvailability),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, doctorID string) (*domain.DoctorAvailability, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[doctorID]
	if !ok {
		return nil, ErrAvailabilityNotFound
	}
	return cloneAvailability(record), nil
}

func (s *MemoryStore) Save(ctx context.Context, availability *domain.DoctorAvailability) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	record := cloneAvailability(availability)
	record.UpdatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[availability.DoctorID] = record
	return nil
}

func cloneAvailability(a *domain.DoctorAvailability) *domain.DoctorAvailability {
	schedule := make(domain.WeeklySchedule, len(a.Schedule))
	for day, ds := range a.Schedule {
		ranges := make([]domain.TimeRange, len(ds.TimeSlots))
		copy(ranges, ds.TimeSlots)
		schedule[day] = domain.DaySchedule{Available: ds.Available, TimeSlots: ranges}
	}

	dates := make([]domain.UnavailableDate, len(a.UnavailableDates))
	copy(dates, a.UnavailableDates)

	return &domain.DoctorAvailability{
		DoctorID:         a.DoctorID,
		Schedule:         schedule,
		UnavailableDates: dates,
		UpdatedAt:        a.UpdatedAt,
	}
}
