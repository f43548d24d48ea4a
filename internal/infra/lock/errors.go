package lock

import "errors"

var (
	// ErrLockTimeout блокировку не удалось получить за отведённое время
	ErrLockTimeout = errors.New("lock: acquire timeout")
	// ErrLockBackend ошибка хранилища блокировок
	ErrLockBackend = errors.New("lock: backend failure")
)
