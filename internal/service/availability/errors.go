package availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном расписании или дне-исключении
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUnavailableDateNotFound возвращается при удалении отсутствующего дня-исключения
	ErrUnavailableDateNotFound = errors.New("unavailable date not found")

	// ErrStorageUnavailable возвращается при сбое или таймауте хранилища
	ErrStorageUnavailable = errors.New("availability: storage unavailable")
)
