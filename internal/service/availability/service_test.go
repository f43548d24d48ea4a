package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/infra/lock"
	availabilityRepo "github.com/m04kA/SMC-DoctorScheduling/internal/infra/storage/availability"
	"github.com/m04kA/SMC-DoctorScheduling/internal/service/availability/models"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/logger"
)

type brokenLocker struct{}

func (brokenLocker) Acquire(context.Context, string) (func(), error) {
	return nil, errors.New("redis: connection refused")
}

func newTestService() (*Service, *availabilityRepo.MemoryStore) {
	store := availabilityRepo.NewMemoryStore()
	svc := NewService(store, lock.NewMemoryLocker(time.Second), domain.DefaultBusinessHours(), logger.NewNop())
	return svc, store
}

func TestService_GetAvailabilityDefault(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.GetAvailability(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.True(t, resp.IsDefault)
	assert.Nil(t, resp.UpdatedAt)
	assert.Len(t, resp.Schedule, 7)
	assert.True(t, resp.Schedule.Day(time.Monday).Available)
	assert.False(t, resp.Schedule.Day(time.Sunday).Available)
	assert.Empty(t, resp.UnavailableDates)
}

func TestService_SaveAvailability(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	req := &models.SaveAvailabilityRequest{
		Schedule: domain.WeeklySchedule{
			time.Tuesday: {Available: true, TimeSlots: []domain.TimeRange{{Start: "10:00", End: "14:00"}}},
		},
		UnavailableDates: []models.UnavailableDateRequest{
			{Date: "2026-12-31", Type: "vacation"},
			{Date: "2026-12-30", Reason: "conference in Kazan", Type: "conference"},
			{Date: "2026-12-31", Type: "sick"},
		},
	}

	resp, err := svc.SaveAvailability(ctx, "doc-1", req)
	require.NoError(t, err)

	assert.False(t, resp.IsDefault)
	assert.NotNil(t, resp.UpdatedAt)
	assert.Len(t, resp.Schedule, 7)
	assert.False(t, resp.Schedule.Day(time.Monday).Available)
	tuesday := resp.Schedule.Day(time.Tuesday)
	require.Len(t, tuesday.TimeSlots, 1)
	assert.NotEmpty(t, tuesday.TimeSlots[0].ID)

	require.Len(t, resp.UnavailableDates, 2)
	assert.Equal(t, "2026-12-30", resp.UnavailableDates[0].Date)
	assert.Equal(t, "2026-12-31", resp.UnavailableDates[1].Date)
	assert.Equal(t, "vacation", resp.UnavailableDates[1].Type)

	stored, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, stored.UnavailableDates, 2)
}

func TestService_SaveAvailabilityValidation(t *testing.T) {
	svc, store := newTestService()

	tests := []struct {
		name string
		req  *models.SaveAvailabilityRequest
	}{
		{
			name: "inverted range",
			req: &models.SaveAvailabilityRequest{Schedule: domain.WeeklySchedule{
				time.Monday: {Available: true, TimeSlots: []domain.TimeRange{{Start: "12:00", End: "09:00"}}},
			}},
		},
		{
			name: "malformed time",
			req: &models.SaveAvailabilityRequest{Schedule: domain.WeeklySchedule{
				time.Monday: {Available: true, TimeSlots: []domain.TimeRange{{Start: "9am", End: "17:00"}}},
			}},
		},
		{
			name: "unknown exception type",
			req: &models.SaveAvailabilityRequest{
				UnavailableDates: []models.UnavailableDateRequest{{Date: "2026-12-31", Type: "holiday"}},
			},
		},
		{
			name: "malformed exception date",
			req: &models.SaveAvailabilityRequest{
				UnavailableDates: []models.UnavailableDateRequest{{Date: "31.12.2026"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveAvailability(context.Background(), "doc-1", tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := store.Get(context.Background(), "doc-1")
	assert.ErrorIs(t, err, availabilityRepo.ErrAvailabilityNotFound)
}

func TestService_AddUnavailableDate(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	resp, err := svc.AddUnavailableDate(ctx, "doc-1", &models.UnavailableDateRequest{
		Date: "2026-11-02", Reason: "flu", Type: "sick",
	})
	require.NoError(t, err)
	assert.False(t, resp.IsDefault)
	require.Len(t, resp.UnavailableDates, 1)
	assert.Equal(t, "sick", resp.UnavailableDates[0].Type)

	// вместе с исключением сохранено расписание по умолчанию
	stored, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, stored.Schedule.Day(time.Friday).Available)
	assert.False(t, stored.Schedule.Day(time.Saturday).Available)

	again, err := svc.AddUnavailableDate(ctx, "doc-1", &models.UnavailableDateRequest{Date: "2026-11-02", Type: "vacation"})
	require.NoError(t, err)
	require.Len(t, again.UnavailableDates, 1)
	assert.Equal(t, "sick", again.UnavailableDates[0].Type)

	_, err = svc.AddUnavailableDate(ctx, "doc-1", &models.UnavailableDateRequest{Date: "2026-11-03", Type: "party"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_RemoveUnavailableDate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	date := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.RemoveUnavailableDate(ctx, "doc-1", date)
	assert.ErrorIs(t, err, ErrUnavailableDateNotFound)

	_, err = svc.AddUnavailableDate(ctx, "doc-1", &models.UnavailableDateRequest{Date: "2026-11-02"})
	require.NoError(t, err)
	_, err = svc.AddUnavailableDate(ctx, "doc-1", &models.UnavailableDateRequest{Date: "2026-11-03"})
	require.NoError(t, err)

	resp, err := svc.RemoveUnavailableDate(ctx, "doc-1", date)
	require.NoError(t, err)
	require.Len(t, resp.UnavailableDates, 1)
	assert.Equal(t, "2026-11-03", resp.UnavailableDates[0].Date)
	assert.Equal(t, "other", resp.UnavailableDates[0].Type)

	_, err = svc.RemoveUnavailableDate(ctx, "doc-1", date)
	assert.ErrorIs(t, err, ErrUnavailableDateNotFound)
}

func TestService_StorageFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("repository", func(t *testing.T) {
		svc := NewService(failingAvailabilityRepo{}, lock.NewMemoryLocker(0), domain.DefaultBusinessHours(), logger.NewNop())

		_, err := svc.GetAvailability(ctx, "doc-1")
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("locker", func(t *testing.T) {
		svc := NewService(availabilityRepo.NewMemoryStore(), brokenLocker{}, domain.DefaultBusinessHours(), logger.NewNop())

		_, err := svc.AddUnavailableDate(ctx, "doc-1", &models.UnavailableDateRequest{Date: "2026-11-02"})
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestService_RequiresDoctorID(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetAvailability(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
