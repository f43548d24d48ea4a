package availability

import "errors"

var (
	// ErrAvailabilityNotFound возвращается, когда врач ещё не сохранял расписание
	ErrAvailabilityNotFound = errors.New("availability.repository: availability not found")

	// ErrEncode возвращается при ошибке сериализации расписания
	ErrEncode = errors.New("availability.repository: failed to encode schedule")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
