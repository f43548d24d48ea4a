package book_appointment

import (
	"time"

	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// Request модель запроса на запись к врачу
type Request struct {
	DoctorID        string           // ID врача
	PatientID       string           // ID пациента
	Date            time.Time        // Дата приёма (без времени)
	Time            types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // 0 - длительность слота по умолчанию
	Type            string           // Тип приёма (консультация, повторный и т.п.)
	Fee             float64          // 0 - стоимость из карточки врача
	Notes           *string          // Заметки пациента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              string
	DoctorID        string
	PatientID       string
	Date            time.Time
	Time            types.TimeString
	DurationMinutes int
	Status          string
	Type            string
	Fee             float64
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
