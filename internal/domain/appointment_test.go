package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentStatus_IsOccupying(t *testing.T) {
	assert.True(t, StatusPending.IsOccupying())
	assert.True(t, StatusConfirmed.IsOccupying())
	assert.True(t, StatusCompleted.IsOccupying())
	assert.False(t, StatusCancelled.IsOccupying())
}

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	status, err := ParseAppointmentStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseAppointmentStatus("no_show")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("19.10.2026")
	assert.Error(t, err)
}

func TestAppointment_SlotKeyIgnoresClock(t *testing.T) {
	a := &Appointment{
		DoctorID: "doc-1",
		Date:     time.Date(2026, 10, 19, 13, 45, 0, 0, time.FixedZone("X", 3600)),
		Time:     "10:00",
	}

	assert.Equal(t, SlotKey{DoctorID: "doc-1", Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), Time: "10:00"}, a.SlotKey())
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		from   time.Time
		months int
		want   time.Time
	}{
		{time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), 3, time.Date(2027, 1, 16, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC), 3, time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2027, 11, 30, 0, 0, 0, 0, time.UTC), 3, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC), 1, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AddMonths(tt.from, tt.months), tt.from.Format(DateFormat))
	}
}
