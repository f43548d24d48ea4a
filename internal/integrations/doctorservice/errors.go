package doctorservice

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач неизвестен справочнику
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("doctorservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("doctorservice client: invalid response")

	// ErrUnavailable сервис недоступен или не ответил вовремя
	ErrUnavailable = errors.New("doctorservice client: service unavailable")
)
