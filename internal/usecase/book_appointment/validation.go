package book_appointment

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// validateRequest валидирует и нормализует входные данные запроса
func validateRequest(req *Request, slotDuration int) error {
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.PatientID = strings.TrimSpace(req.PatientID)

	if req.DoctorID == "" {
		return fmt.Errorf("%w: doctorId is required", ErrInvalidInput)
	}

	if req.PatientID == "" {
		return fmt.Errorf("%w: patientId is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Time.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}

	normalized, err := types.NewTimeStringFromString(req.Time.String())
	if err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}
	req.Time = normalized

	// Все слоты одной длины: длительность либо не указана, либо совпадает со слотом
	if req.DurationMinutes == 0 {
		req.DurationMinutes = slotDuration
	}
	if req.DurationMinutes != slotDuration {
		return fmt.Errorf("%w: durationMinutes must be %d", ErrInvalidInput, slotDuration)
	}

	if req.Fee < 0 {
		return fmt.Errorf("%w: fee must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше горизонта записи.
// horizonMonths = 0 снимает ограничение сверху
func validateDate(date, now time.Time, horizonMonths int) error {
	day := domain.DateOnly(date)
	today := domain.DateOnly(now)

	if day.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDateRange, day.Format(domain.DateFormat))
	}

	if horizonMonths == 0 {
		return nil
	}

	maxDate := domain.AddMonths(today, horizonMonths)
	if day.After(maxDate) {
		return fmt.Errorf("%w: can only book %d months in advance (until %s)",
			ErrInvalidDateRange, horizonMonths, maxDate.Format(domain.DateFormat))
	}

	return nil
}

// containsTime проверяет, что время входит в список свободных слотов
func containsTime(slots []types.TimeString, t types.TimeString) bool {
	for _, slot := range slots {
		if slot.Equal(t) {
			return true
		}
	}
	return false
}
