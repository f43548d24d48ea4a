package domain

import (
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// SlotState is the state of a grid slot on a concrete date
type SlotState string

const (
	SlotFree   SlotState = "free"
	SlotBooked SlotState = "booked"
	SlotPast   SlotState = "past"
)

// DaySlot is one generated slot of a doctor's day
type DaySlot struct {
	Time            types.TimeString
	DurationMinutes int
	State           SlotState
}

// IsFree returns true if the slot can be booked
func (s *DaySlot) IsFree() bool {
	return s.State == SlotFree
}

// DayPlan is the full picture of a doctor's day: every generated slot with its
// state, or a blocked day
type DayPlan struct {
	DoctorID    string
	Date        time.Time
	Weekday     time.Weekday
	Blocked     bool // the date is an unavailable date
	UsesDefault bool // the doctor never saved a schedule
	Slots       []DaySlot
}

// FreeTimes returns the free slot times in ascending order
func (p *DayPlan) FreeTimes() []types.TimeString {
	free := make([]types.TimeString, 0, len(p.Slots))
	for i := range p.Slots {
		if p.Slots[i].IsFree() {
			free = append(free, p.Slots[i].Time)
		}
	}
	return free
}

// OccupancyRate returns the booked share of the day's slots as a percentage (0-100)
func (p *DayPlan) OccupancyRate() float64 {
	if len(p.Slots) == 0 {
		return 0
	}
	booked := 0
	for i := range p.Slots {
		if p.Slots[i].State == SlotBooked {
			booked++
		}
	}
	return float64(booked) / float64(len(p.Slots)) * 100
}
