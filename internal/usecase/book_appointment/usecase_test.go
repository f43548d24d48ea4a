package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/internal/infra/lock"
	"github.com/m04kA/SMC-DoctorScheduling/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-DoctorScheduling/internal/infra/storage/availability"
	"github.com/m04kA/SMC-DoctorScheduling/internal/integrations/doctorservice"
	availabilitySvc "github.com/m04kA/SMC-DoctorScheduling/internal/service/availability"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/logger"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/metrics"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/ptr"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/txmanager"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

var (
	// пятница, 10:00
	testNow    = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	testMonday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type stubDirectory struct {
	fee *float64
	err error
}

func (d stubDirectory) GetDoctor(_ context.Context, doctorID string) (*doctorservice.Doctor, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &doctorservice.Doctor{ID: doctorID, ConsultationFee: d.fee}, nil
}

// passthroughLocker оставляет защиту от двойной записи только хранилищу
type passthroughLocker struct{}

func (passthroughLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

type fixture struct {
	uc           *UseCase
	appointments *appointment.MemoryStore
	availability *availabilityRepo.MemoryStore
	resolver     *availabilitySvc.Resolver
	metrics      *metrics.Metrics
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	directory DoctorDirectory
	locker    Locker
}

func withDirectory(d DoctorDirectory) fixtureOption {
	return func(c *fixtureConfig) { c.directory = d }
}

func withLocker(l Locker) fixtureOption {
	return func(c *fixtureConfig) { c.locker = l }
}

func newFixture(opts ...fixtureOption) *fixture {
	cfg := &fixtureConfig{
		directory: doctorservice.AllowAll{},
		locker:    lock.NewMemoryLocker(5 * time.Second),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	f := &fixture{
		appointments: appointment.NewMemoryStore(),
		availability: availabilityRepo.NewMemoryStore(),
		metrics:      metrics.NewWithRegisterer("test", prometheus.NewRegistry()),
	}

	f.resolver = availabilitySvc.NewResolver(f.availability, f.appointments, f.metrics,
		availabilitySvc.DefaultResolverOptions(), logger.NewNop())
	f.resolver.SetTimeProvider(fixedClock{now: testNow})

	f.uc = NewUseCase(f.appointments, f.resolver, cfg.directory, cfg.locker, txmanager.Nop{},
		f.metrics, domain.DefaultBookingHorizonMonths, logger.NewNop())
	f.uc.SetTimeProvider(fixedClock{now: testNow})

	return f
}

func request(patientID string, date time.Time, at string) *Request {
	return &Request{
		DoctorID:  "doc-1",
		PatientID: patientID,
		Date:      date,
		Time:      types.TimeString(at),
		Type:      "consultation",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(withDirectory(stubDirectory{fee: ptr.Ptr(2500.0)}))

	resp, err := f.uc.Execute(context.Background(), request("pat-1", testMonday, "10:00"))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, testMonday, resp.Date)
	assert.Equal(t, types.TimeString("10:00"), resp.Time)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, 2500.0, resp.Fee)

	stored, err := f.appointments.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingAttempts.WithLabelValues(metrics.BookingCreated)))
}

func TestExecute_ExplicitFeeWins(t *testing.T) {
	f := newFixture(withDirectory(stubDirectory{fee: ptr.Ptr(2500.0)}))

	req := request("pat-1", testMonday, "10:00")
	req.Fee = 1000

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, resp.Fee)
}

func TestExecute_ConcurrentBookingsSingleWinner(t *testing.T) {
	tests := []struct {
		name   string
		locker Locker
	}{
		{name: "doctor lock", locker: lock.NewMemoryLocker(5 * time.Second)},
		{name: "store constraint only", locker: passthroughLocker{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(withLocker(tt.locker))
			const attempts = 25

			var (
				wg          sync.WaitGroup
				mu          sync.Mutex
				successes   int
				unavailable int
				unexpected  []error
			)

			start := make(chan struct{})
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					<-start
					_, err := f.uc.Execute(context.Background(), request(fmt.Sprintf("pat-%d", i), testMonday, "10:00"))

					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					case errors.Is(err, ErrSlotUnavailable):
						unavailable++
					default:
						unexpected = append(unexpected, err)
					}
				}(i)
			}
			close(start)
			wg.Wait()

			assert.Empty(t, unexpected)
			assert.Equal(t, 1, successes)
			assert.Equal(t, attempts-1, unavailable)

			occupying, err := f.appointments.GetByDoctorAndDate(context.Background(), "doc-1", testMonday, domain.OccupyingStatuses)
			require.NoError(t, err)
			assert.Len(t, occupying, 1)
		})
	}
}

func TestExecute_DateRange(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{name: "yesterday", date: testNow.AddDate(0, 0, -1)},
		{name: "four months ahead", date: testNow.AddDate(0, 4, 0)},
		{name: "monday after horizon", date: time.Date(2027, 1, 18, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.uc.Execute(context.Background(), request("pat-1", tt.date, "10:00"))
			assert.ErrorIs(t, err, ErrInvalidDateRange)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingAttempts.WithLabelValues(metrics.BookingInvalidDateRange)))
		})
	}

	t.Run("last weekday inside horizon", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Execute(context.Background(), request("pat-1", time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), "09:00"))
		assert.NoError(t, err)
	})
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "missing doctor", mutate: func(r *Request) { r.DoctorID = " " }},
		{name: "missing patient", mutate: func(r *Request) { r.PatientID = "" }},
		{name: "missing date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "missing time", mutate: func(r *Request) { r.Time = "" }},
		{name: "malformed time", mutate: func(r *Request) { r.Time = "25:00" }},
		{name: "foreign duration", mutate: func(r *Request) { r.DurationMinutes = 45 }},
		{name: "negative fee", mutate: func(r *Request) { r.Fee = -1 }},
		{name: "long notes", mutate: func(r *Request) { r.Notes = ptr.Ptr(string(make([]byte, domain.MaxNotesLength+1))) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := request("pat-1", testMonday, "10:00")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_DoesNotMutateRequest(t *testing.T) {
	f := newFixture()
	req := request("pat-1", testMonday, "10:00:00")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, types.TimeString("10:00"), resp.Time)
	assert.Equal(t, types.TimeString("10:00:00"), req.Time)
	assert.Zero(t, req.DurationMinutes)
}

func TestExecute_DoctorDirectory(t *testing.T) {
	t.Run("unknown doctor", func(t *testing.T) {
		f := newFixture(withDirectory(stubDirectory{err: doctorservice.ErrDoctorNotFound}))

		_, err := f.uc.Execute(context.Background(), request("pat-1", testMonday, "10:00"))
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("directory down", func(t *testing.T) {
		f := newFixture(withDirectory(stubDirectory{err: doctorservice.ErrUnavailable}))

		_, err := f.uc.Execute(context.Background(), request("pat-1", testMonday, "10:00"))
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestExecute_SlotNotFree(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.availability.Save(ctx, &domain.DoctorAvailability{
		DoctorID: "doc-1",
		Schedule: domain.DefaultWeeklySchedule(domain.DefaultBusinessHours()),
		UnavailableDates: []domain.UnavailableDate{
			{ID: "u-1", Date: testMonday.AddDate(0, 0, 1), Type: domain.UnavailableSick},
		},
	}))

	tests := []struct {
		name string
		date time.Time
		at   string
	}{
		{name: "off grid", date: testMonday, at: "10:15"},
		{name: "after closing", date: testMonday, at: "17:00"},
		{name: "saturday", date: time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC), at: "10:00"},
		{name: "unavailable date", date: testMonday.AddDate(0, 0, 1), at: "10:00"},
		{name: "already started today", date: testNow, at: "09:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, request("pat-1", tt.date, tt.at))
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		})
	}
}

func TestExecute_LockTimeout(t *testing.T) {
	locker := lock.NewMemoryLocker(20 * time.Millisecond)
	f := newFixture(withLocker(locker))

	release, err := locker.Acquire(context.Background(), lock.DoctorKey("doc-1"))
	require.NoError(t, err)
	defer release()

	_, err = f.uc.Execute(context.Background(), request("pat-1", testMonday, "10:00"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BookingAttempts.WithLabelValues(metrics.BookingStorageFailure)))
}

func TestScenario_BookCompeteAndCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	schedule := domain.DefaultWeeklySchedule(domain.DefaultBusinessHours())
	require.NoError(t, f.availability.Save(ctx, &domain.DoctorAvailability{DoctorID: "doc-1", Schedule: schedule}))

	// пациент A записывается на понедельник 10:00
	a, err := f.uc.Execute(ctx, request("patient-a", testMonday, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, "pending", a.Status)

	// пациент B видит список без 10:00
	free, err := f.resolver.ResolveFreeSlots(ctx, "doc-1", testMonday)
	require.NoError(t, err)
	assert.Len(t, free, 15)
	assert.NotContains(t, free, types.TimeString("10:00"))

	_, err = f.uc.Execute(ctx, request("patient-b", testMonday, "10:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	b, err := f.uc.Execute(ctx, request("patient-b", testMonday, "10:30"))
	require.NoError(t, err)
	assert.Equal(t, "pending", b.Status)

	// отмена освобождает слот
	require.NoError(t, f.appointments.UpdateStatus(ctx, a.ID, domain.StatusCancelled))

	free, err = f.resolver.ResolveFreeSlots(ctx, "doc-1", testMonday)
	require.NoError(t, err)
	assert.Contains(t, free, types.TimeString("10:00"))
	assert.NotContains(t, free, types.TimeString("10:30"))

	_, err = f.uc.Execute(ctx, request("patient-c", testMonday, "10:00"))
	assert.NoError(t, err)
}

// serializableSpy считает транзакции, в которых выполнялась запись
type serializableSpy struct {
	calls int
}

func (s *serializableSpy) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.calls++
	return fn(ctx)
}

func TestExecute_RunsInSerializableTransaction(t *testing.T) {
	f := newFixture()
	tx := &serializableSpy{}

	uc := NewUseCase(f.appointments, f.resolver, doctorservice.AllowAll{}, lock.NewMemoryLocker(time.Second), tx,
		f.metrics, domain.DefaultBookingHorizonMonths, logger.NewNop())
	uc.SetTimeProvider(fixedClock{now: testNow})

	_, err := uc.Execute(context.Background(), request("pat-1", testMonday, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)

	// Невалидный запрос до транзакции не доходит
	_, err = uc.Execute(context.Background(), request("", testMonday, "10:00"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 1, tx.calls)
}
