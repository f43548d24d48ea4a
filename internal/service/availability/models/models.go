package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// Request модели

// UnavailableDateRequest день-исключение во входящем запросе
type UnavailableDateRequest struct {
	ID     string `json:"id,omitempty"`
	Date   string `json:"date"` // "2026-12-28"
	Reason string `json:"reason,omitempty"`
	Type   string `json:"type,omitempty"`
}

// SaveAvailabilityRequest полная перезапись расписания и исключений врача
type SaveAvailabilityRequest struct {
	Schedule         domain.WeeklySchedule    `json:"weeklySchedule"`
	UnavailableDates []UnavailableDateRequest `json:"unavailableDates"`
}

// Response модели

// UnavailableDateResponse день-исключение в ответе
type UnavailableDateResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
	Type   string `json:"type"`
}

// AvailabilityResponse расписание врача.
// IsDefault=true, если врач расписание не сохранял и отдано расписание по умолчанию
type AvailabilityResponse struct {
	DoctorID         string                    `json:"doctorId"`
	Schedule         domain.WeeklySchedule     `json:"weeklySchedule"`
	UnavailableDates []UnavailableDateResponse `json:"unavailableDates"`
	IsDefault        bool                      `json:"isDefault"`
	UpdatedAt        *time.Time                `json:"updatedAt,omitempty"`
}

// SlotResponse слот дня с состоянием
type SlotResponse struct {
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
	State           string `json:"state"`
}

// DayPlanResponse свободные слоты врача на дату
type DayPlanResponse struct {
	DoctorID    string         `json:"doctorId"`
	Date        string         `json:"date"`
	Weekday     string         `json:"weekday"`
	Blocked     bool           `json:"blocked"`
	UsesDefault bool           `json:"usesDefaultSchedule"`
	FreeSlots   []string       `json:"freeSlots"`
	Slots       []SlotResponse `json:"slots"`

	// OccupancyRate доля занятых слотов дня, %
	OccupancyRate float64 `json:"occupancyRate"`
}

// Методы конвертации

// ToDomainUnavailableDate конвертирует запрос в domain модель с валидацией
func ToDomainUnavailableDate(req UnavailableDateRequest) (domain.UnavailableDate, error) {
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return domain.UnavailableDate{}, fmt.Errorf("%w: %q", domain.ErrInvalidUnavailableDate, req.Date)
	}

	u := domain.UnavailableDate{
		ID:     req.ID,
		Date:   date,
		Reason: strings.TrimSpace(req.Reason),
		Type:   domain.UnavailableType(strings.ToLower(req.Type)),
	}
	if u.Type == "" {
		u.Type = domain.UnavailableOther
	}
	if err := u.Type.Validate(); err != nil {
		return domain.UnavailableDate{}, err
	}
	if utf8.RuneCountInString(u.Reason) > domain.MaxReasonLength {
		return domain.UnavailableDate{}, fmt.Errorf("%w: reason too long", domain.ErrInvalidUnavailableDate)
	}

	return u, nil
}

// ToDomainUnavailableDates конвертирует список исключений
func ToDomainUnavailableDates(reqs []UnavailableDateRequest) ([]domain.UnavailableDate, error) {
	dates := make([]domain.UnavailableDate, 0, len(reqs))
	for _, req := range reqs {
		u, err := ToDomainUnavailableDate(req)
		if err != nil {
			return nil, err
		}
		dates = append(dates, u)
	}
	return dates, nil
}

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.DoctorAvailability, isDefault bool) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		DoctorID:         a.DoctorID,
		Schedule:         a.Schedule.Normalize(),
		UnavailableDates: make([]UnavailableDateResponse, 0, len(a.UnavailableDates)),
		IsDefault:        isDefault,
	}

	for _, u := range a.UnavailableDates {
		resp.UnavailableDates = append(resp.UnavailableDates, UnavailableDateResponse{
			ID:     u.ID,
			Date:   u.Date.Format(domain.DateFormat),
			Reason: u.Reason,
			Type:   string(u.Type),
		})
	}

	if !a.UpdatedAt.IsZero() {
		updatedAt := a.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

// FromDomainDayPlan конвертирует план дня в DTO
func FromDomainDayPlan(p *domain.DayPlan) *DayPlanResponse {
	resp := &DayPlanResponse{
		DoctorID:    p.DoctorID,
		Date:        p.Date.Format(domain.DateFormat),
		Weekday:     strings.ToLower(p.Weekday.String()),
		Blocked:     p.Blocked,
		UsesDefault: p.UsesDefault,
		FreeSlots:   timeStrings(p.FreeTimes()),
		Slots:       make([]SlotResponse, 0, len(p.Slots)),

		OccupancyRate: p.OccupancyRate(),
	}

	for _, s := range p.Slots {
		resp.Slots = append(resp.Slots, SlotResponse{
			Time:            s.Time.String(),
			DurationMinutes: s.DurationMinutes,
			State:           string(s.State),
		})
	}

	return resp
}

func timeStrings(times []types.TimeString) []string {
	out := make([]string, len(times))
	for i, t := range times {
		out[i] = t.String()
	}
	return out
}
