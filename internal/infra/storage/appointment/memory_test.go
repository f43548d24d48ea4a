package appointment

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func newAppointment(patientID string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		DoctorID:        "doc-1",
		PatientID:       patientID,
		Date:            monday,
		Time:            domain.DefaultOpenTime,
		DurationMinutes: 30,
		Status:          status,
		Type:            "consultation",
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, newAppointment("pat-1", domain.StatusPending))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestMemoryStore_CreateConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Create(ctx, newAppointment("pat-1", domain.StatusPending))
	require.NoError(t, err)

	_, err = store.Create(ctx, newAppointment("pat-2", domain.StatusConfirmed))
	assert.ErrorIs(t, err, ErrConflict)

	// отменённая запись слот не занимает
	_, err = store.Create(ctx, newAppointment("pat-3", domain.StatusCancelled))
	assert.NoError(t, err)
}

func TestMemoryStore_CreateNormalizesTime(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := newAppointment("pat-1", domain.StatusPending)
	first.Time = "9:00"
	created, err := store.Create(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "09:00", created.Time.String())

	second := newAppointment("pat-2", domain.StatusPending)
	second.Time = "09:00"
	_, err = store.Create(ctx, second)
	assert.ErrorIs(t, err, ErrConflict)

	broken := newAppointment("pat-3", domain.StatusPending)
	broken.Time = "nine"
	_, err = store.Create(ctx, broken)
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestMemoryStore_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const attempts = 50
	var wg sync.WaitGroup
	var successes, conflicts int32

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := newAppointment("pat", domain.StatusPending)
			a.PatientID = a.PatientID + string(rune('A'+i%26))
			_, err := store.Create(ctx, a)
			switch err {
			case nil:
				atomic.AddInt32(&successes, 1)
			case ErrConflict:
				atomic.AddInt32(&conflicts, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes)
	assert.Equal(t, int32(attempts-1), conflicts)
}

func TestMemoryStore_UpdateStatusFreesAndRetakesSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Create(ctx, newAppointment("pat-1", domain.StatusPending))
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, first.ID, domain.StatusCancelled))

	second, err := store.Create(ctx, newAppointment("pat-2", domain.StatusPending))
	require.NoError(t, err)

	// возврат отменённой записи в активный статус невозможен, пока слот занят
	assert.ErrorIs(t, store.UpdateStatus(ctx, first.ID, domain.StatusConfirmed), ErrConflict)

	require.NoError(t, store.UpdateStatus(ctx, second.ID, domain.StatusConfirmed))
	got, err := store.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	assert.ErrorIs(t, store.UpdateStatus(ctx, "missing", domain.StatusCancelled), ErrAppointmentNotFound)
}

func TestMemoryStore_GetByDoctorAndDate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	late := newAppointment("pat-1", domain.StatusConfirmed)
	late.Time = "15:00"
	early := newAppointment("pat-2", domain.StatusPending)
	early.Time = "09:30"
	cancelled := newAppointment("pat-3", domain.StatusCancelled)
	cancelled.Time = "11:00"
	otherDay := newAppointment("pat-4", domain.StatusPending)
	otherDay.Date = monday.AddDate(0, 0, 1)
	otherDoctor := newAppointment("pat-5", domain.StatusPending)
	otherDoctor.DoctorID = "doc-2"

	for _, a := range []*domain.Appointment{late, early, cancelled, otherDay, otherDoctor} {
		_, err := store.Create(ctx, a)
		require.NoError(t, err)
	}

	all, err := store.GetByDoctorAndDate(ctx, "doc-1", monday, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"09:30", "11:00", "15:00"}, []string{all[0].Time.String(), all[1].Time.String(), all[2].Time.String()})

	occupying, err := store.GetByDoctorAndDate(ctx, "doc-1", monday.Add(10*time.Hour), domain.OccupyingStatuses)
	require.NoError(t, err)
	assert.Len(t, occupying, 2)
}

func TestMemoryStore_GetByPatient(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	older := newAppointment("pat-1", domain.StatusConfirmed)
	newer := newAppointment("pat-1", domain.StatusPending)
	newer.Date = monday.AddDate(0, 0, 7)
	_, err := store.Create(ctx, older)
	require.NoError(t, err)
	_, err = store.Create(ctx, newer)
	require.NoError(t, err)

	list, err := store.GetByPatient(ctx, "pat-1", nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Date.After(list[1].Date))

	pending := domain.StatusPending
	list, err = store.GetByPatient(ctx, "pat-1", &pending)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, newAppointment("pat-1", domain.StatusPending))
	require.NoError(t, err)

	created.Status = domain.StatusCancelled

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestMemoryStore_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Create(ctx, newAppointment("pat-1", domain.StatusPending))
	assert.ErrorIs(t, err, context.Canceled)
}
