package availability

import (
	"context"

	"github.com/m04kA/SMC-DoctorScheduling/pkg/txmanager"
)

// Переиспользуем интерфейсы из txmanager для работы с БД
type DBExecutor = txmanager.DBExecutor

// TransactionManager нужен для атомарной перезаписи расписания и исключений
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
