package book_appointment

import (
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	bookAppointment "github.com/m04kA/SMC-DoctorScheduling/internal/usecase/book_appointment"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	DoctorID        string  `json:"doctorId"`
	PatientID       string  `json:"patientId"`
	Date            string  `json:"date"` // "2026-10-19"
	Time            string  `json:"time"` // "10:00"
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Type            string  `json:"type,omitempty"`
	Fee             float64 `json:"fee,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              string  `json:"id"`
	DoctorID        string  `json:"doctorId"`
	PatientID       string  `json:"patientId"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Type            string  `json:"type"`
	Fee             float64 `json:"fee"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// errInvalidTime ошибка парсинга времени, отличаемая от ошибки даты
type errInvalidTime struct{ err error }

func (e errInvalidTime) Error() string { return e.err.Error() }

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest() (*bookAppointment.Request, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	at, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, errInvalidTime{err: err}
	}

	return &bookAppointment.Request{
		DoctorID:        r.DoctorID,
		PatientID:       r.PatientID,
		Date:            date,
		Time:            at,
		DurationMinutes: r.DurationMinutes,
		Type:            r.Type,
		Fee:             r.Fee,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		DoctorID:        resp.DoctorID,
		PatientID:       resp.PatientID,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.Time.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Type:            resp.Type,
		Fee:             resp.Fee,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
