package appointment

import "github.com/m04kA/SMC-DoctorScheduling/pkg/txmanager"

// Переиспользуем интерфейсы из txmanager для работы с БД
type DBExecutor = txmanager.DBExecutor
