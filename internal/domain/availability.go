package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// WeekOrder is the canonical Monday-first order of days
var WeekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// TimeRange is a wall-clock window a doctor entered for a day
type TimeRange struct {
	ID    string           `json:"id"`
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Validate checks that both bounds are well formed and start < end
func (r TimeRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidTimeRange, err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidTimeRange, err)
	}
	if !r.Start.IsBefore(r.End) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, r.Start, r.End)
	}
	return nil
}

// DaySchedule describes one weekday. TimeSlots are kept even when the day is
// not available but must not be treated as bookable then.
type DaySchedule struct {
	Available bool        `json:"available"`
	TimeSlots []TimeRange `json:"timeSlots"`
}

// WeeklySchedule maps every weekday to its schedule
type WeeklySchedule map[time.Weekday]DaySchedule

// Day returns the schedule for a weekday; a missing day is unavailable
func (w WeeklySchedule) Day(day time.Weekday) DaySchedule {
	if w == nil {
		return DaySchedule{}
	}
	return w[day]
}

// Normalize returns a copy containing all seven days with ids assigned to ranges
func (w WeeklySchedule) Normalize() WeeklySchedule {
	out := make(WeeklySchedule, len(WeekOrder))
	for _, day := range WeekOrder {
		src := w.Day(day)
		ranges := make([]TimeRange, len(src.TimeSlots))
		for i, r := range src.TimeSlots {
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
			ranges[i] = r
		}
		out[day] = DaySchedule{Available: src.Available, TimeSlots: ranges}
	}
	return out
}

// Validate checks every range of every day
func (w WeeklySchedule) Validate() error {
	for _, day := range WeekOrder {
		for _, r := range w.Day(day).TimeSlots {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("%s: %w", strings.ToLower(day.String()), err)
			}
		}
	}
	return nil
}

// MarshalJSON encodes the schedule keyed by lowercase day names
func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	raw := make(map[string]DaySchedule, len(WeekOrder))
	for _, day := range WeekOrder {
		ds := w.Day(day)
		if ds.TimeSlots == nil {
			ds.TimeSlots = []TimeRange{}
		}
		raw[strings.ToLower(day.String())] = ds
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes a schedule keyed by day names (case-insensitive)
func (w *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string]DaySchedule
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(WeeklySchedule, len(raw))
	for key, ds := range raw {
		day, err := ParseWeekday(key)
		if err != nil {
			return err
		}
		out[day] = ds
	}
	*w = out
	return nil
}

// ParseWeekday parses a day name such as "monday" or "Mon"
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, day := range WeekOrder {
		full := strings.ToLower(day.String())
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return day, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// BusinessHours is the clinic-wide window used to build the default schedule
// and the fixed slot grid
type BusinessHours struct {
	Open  types.TimeString
	Close types.TimeString
}

// DefaultBusinessHours 09:00-17:00
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{Open: DefaultOpenTime, Close: DefaultCloseTime}
}

// DefaultWeeklySchedule builds the five-day work week used for doctors that
// never saved a schedule. It is computed on read and never stored implicitly.
func DefaultWeeklySchedule(hours BusinessHours) WeeklySchedule {
	schedule := make(WeeklySchedule, len(WeekOrder))
	for _, day := range WeekOrder {
		if day == time.Saturday || day == time.Sunday {
			schedule[day] = DaySchedule{Available: false, TimeSlots: []TimeRange{}}
			continue
		}
		schedule[day] = DaySchedule{
			Available: true,
			TimeSlots: []TimeRange{{
				ID:    "default-" + strings.ToLower(day.String()),
				Start: hours.Open,
				End:   hours.Close,
			}},
		}
	}
	return schedule
}

// UnavailableType is the kind of a blocked day
type UnavailableType string

const (
	UnavailableVacation   UnavailableType = "vacation"
	UnavailableSick       UnavailableType = "sick"
	UnavailableConference UnavailableType = "conference"
	UnavailableOther      UnavailableType = "other"
)

// Validate checks the type is one of the known kinds
func (t UnavailableType) Validate() error {
	switch t {
	case UnavailableVacation, UnavailableSick, UnavailableConference, UnavailableOther:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidUnavailableType, string(t))
	}
}

// UnavailableDate blocks one whole calendar day
type UnavailableDate struct {
	ID     string
	Date   time.Time
	Reason string
	Type   UnavailableType
}

// DoctorAvailability is the recurring schedule plus blocked days of one doctor
type DoctorAvailability struct {
	DoctorID         string
	Schedule         WeeklySchedule
	UnavailableDates []UnavailableDate
	UpdatedAt        time.Time
}

// IsUnavailableOn reports whether any exception matches the calendar date
func (a *DoctorAvailability) IsUnavailableOn(date time.Time) bool {
	day := DateOnly(date)
	for _, u := range a.UnavailableDates {
		if DateOnly(u.Date).Equal(day) {
			return true
		}
	}
	return false
}

// NormalizeUnavailableDates strips time components, assigns ids, drops
// duplicate dates (first entry wins) and sorts ascending
func NormalizeUnavailableDates(dates []UnavailableDate) []UnavailableDate {
	seen := make(map[time.Time]struct{}, len(dates))
	out := make([]UnavailableDate, 0, len(dates))
	for _, u := range dates {
		u.Date = DateOnly(u.Date)
		if _, ok := seen[u.Date]; ok {
			continue
		}
		seen[u.Date] = struct{}{}
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if u.Type == "" {
			u.Type = UnavailableOther
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
