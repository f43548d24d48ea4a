package domain

import (
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus converts a raw string into a known status
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// IsOccupying returns true if an appointment in this status holds its slot
func (s AppointmentStatus) IsOccupying() bool {
	for _, status := range OccupyingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status may move to next.
// completed and cancelled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Appointment represents a booked visit of a patient to a doctor
type Appointment struct {
	ID              string
	DoctorID        string
	PatientID       string
	Date            time.Time // calendar date, midnight UTC
	Time            types.TimeString
	DurationMinutes int
	Status          AppointmentStatus
	Type            string
	Fee             float64
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOccupying returns true if the appointment blocks its slot
func (a *Appointment) IsOccupying() bool {
	return a.Status.IsOccupying()
}

// SlotKey identifies the (doctor, date, time) cell an appointment occupies
func (a *Appointment) SlotKey() SlotKey {
	return SlotKey{DoctorID: a.DoctorID, Date: DateOnly(a.Date), Time: a.Time}
}

// SlotKey is the uniqueness key for occupying appointments
type SlotKey struct {
	DoctorID string
	Date     time.Time
	Time     types.TimeString
}

// DateOnly strips the time-of-day component and location, keeping the calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts a date by n calendar months. When the target month is
// shorter, the result is its last day (Nov 30 + 3 months = Feb 28).
func AddMonths(date time.Time, n int) time.Time {
	y, m, d := DateOnly(date).Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD into a calendar date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(d), nil
}
