package lock

import "context"

// Locker сериализует критические секции по ключу (например, "doctor:<id>").
// Acquire блокируется до захвата, отмены ctx или истечения времени ожидания.
// Возвращаемую release нужно вызвать ровно один раз; повторные вызовы игнорируются.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// DoctorKey ключ блокировки расписания врача
func DoctorKey(doctorID string) string {
	return "doctor:" + doctorID
}
