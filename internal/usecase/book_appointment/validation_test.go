package book_appointment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/ptr"
)

func TestValidateRequest_NotesCountCharacters(t *testing.T) {
	req := request("pat-1", testMonday, "10:00")
	req.Notes = ptr.Ptr(strings.Repeat("я", domain.MaxNotesLength))
	require.NoError(t, validateRequest(req, domain.DefaultSlotDurationMinutes))

	req = request("pat-1", testMonday, "10:00")
	req.Notes = ptr.Ptr(strings.Repeat("я", domain.MaxNotesLength+1))
	assert.ErrorIs(t, validateRequest(req, domain.DefaultSlotDurationMinutes), ErrInvalidInput)
}

func TestValidateDate_HorizonAtMonthEnd(t *testing.T) {
	now := time.Date(2026, 11, 30, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, validateDate(time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC), now, 3))
	assert.ErrorIs(t, validateDate(time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), now, 3), ErrInvalidDateRange)
	assert.ErrorIs(t, validateDate(time.Date(2027, 3, 2, 0, 0, 0, 0, time.UTC), now, 3), ErrInvalidDateRange)
}

func TestValidateDate_NoUpperLimit(t *testing.T) {
	assert.NoError(t, validateDate(testNow.AddDate(5, 0, 0), testNow, 0))
}
