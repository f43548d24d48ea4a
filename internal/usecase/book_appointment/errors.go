package book_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInvalidDateRange возвращается для даты в прошлом или дальше горизонта записи
	ErrInvalidDateRange = errors.New("book_appointment: date is outside the booking horizon")

	// ErrSlotUnavailable возвращается, когда время не входит в текущий список свободных слотов
	// или слот занят параллельной записью
	ErrSlotUnavailable = errors.New("book_appointment: slot is not available")

	// ErrDoctorNotFound возвращается, когда врач неизвестен
	ErrDoctorNotFound = errors.New("book_appointment: doctor not found")

	// ErrStorageUnavailable возвращается при сбое или таймауте хранилища; запрос можно повторить
	ErrStorageUnavailable = errors.New("book_appointment: storage unavailable")
)
