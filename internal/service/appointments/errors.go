package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidStatusTransition возвращается при недопустимой смене статуса
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")

	// ErrSlotUnavailable возвращается, если слот уже занят другой записью
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrStorageUnavailable возвращается при сбое или таймауте хранилища
	ErrStorageUnavailable = errors.New("appointments: storage unavailable")
)
