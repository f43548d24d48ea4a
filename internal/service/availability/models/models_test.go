package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
)

func TestToDomainUnavailableDate_ReasonCountsCharacters(t *testing.T) {
	u, err := ToDomainUnavailableDate(UnavailableDateRequest{
		Date:   "2026-12-28",
		Reason: strings.Repeat("отпуск", 80), // 480 символов, 960 байт
		Type:   "vacation",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UnavailableVacation, u.Type)

	_, err = ToDomainUnavailableDate(UnavailableDateRequest{
		Date:   "2026-12-28",
		Reason: strings.Repeat("я", domain.MaxReasonLength+1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUnavailableDate)
}

func TestFromDomainDayPlan(t *testing.T) {
	plan := &domain.DayPlan{
		DoctorID: "doc-1",
		Date:     time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Weekday:  time.Monday,
		Slots: []domain.DaySlot{
			{Time: "09:00", DurationMinutes: 30, State: domain.SlotBooked},
			{Time: "09:30", DurationMinutes: 30, State: domain.SlotFree},
			{Time: "10:00", DurationMinutes: 30, State: domain.SlotFree},
			{Time: "10:30", DurationMinutes: 30, State: domain.SlotFree},
		},
	}

	resp := FromDomainDayPlan(plan)

	assert.Equal(t, "2026-10-19", resp.Date)
	assert.Equal(t, "monday", resp.Weekday)
	assert.Equal(t, []string{"09:30", "10:00", "10:30"}, resp.FreeSlots)
	assert.InDelta(t, 25.0, resp.OccupancyRate, 0.001)
	require.Len(t, resp.Slots, 4)
	assert.Equal(t, "booked", resp.Slots[0].State)
}
