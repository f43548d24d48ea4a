package domain

import "github.com/m04kA/SMC-DoctorScheduling/pkg/types"

// Default scheduling values
const (
	DefaultSlotDurationMinutes     = 30
	DefaultBookingHorizonMonths    = 3
	DefaultMinBookingNoticeMinutes = 0
)

// Default business hours (09:00-17:00)
var (
	DefaultOpenTime  = types.TimeString("09:00")
	DefaultCloseTime = types.TimeString("17:00")
)

// Business validation constants
const (
	MinSlotDurationMinutes  = 5
	MaxSlotDurationMinutes  = 480 // 8 hours
	MaxBookingHorizonMonths = 24
	MaxNotesLength          = 500
	MaxReasonLength         = 500
)

// Date format
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses statuses that hold a slot. A pending appointment blocks
// its slot so that unapproved requests cannot be overbooked.
var OccupyingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// AllStatuses every known appointment status
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}
