package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/psqlbuilder"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/txmanager"
)

const (
	scheduleTable    = "doctor_availability"
	unavailableTable = "doctor_unavailable_dates"
)

// Repository хранит недельное расписание врача (JSONB) и дни-исключения в PostgreSQL
type Repository struct {
	db        DBExecutor
	txManager TransactionManager
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor, txManager TransactionManager) *Repository {
	return &Repository{db: db, txManager: txManager}
}

// Get получает расписание и исключения врача.
// Если врач расписание не сохранял, возвращает ErrAvailabilityNotFound
func (r *Repository) Get(ctx context.Context, doctorID string) (*domain.DoctorAvailability, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekly_schedule", "updated_at").
		From(scheduleTable).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var raw []byte
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan schedule: %v", ErrScanRow, err)
	}

	var schedule domain.WeeklySchedule
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return nil, fmt.Errorf("%w: Get - decode schedule: %v", ErrScanRow, err)
	}

	dates, err := r.getUnavailableDates(ctx, executor, doctorID)
	if err != nil {
		return nil, err
	}

	return &domain.DoctorAvailability{
		DoctorID:         doctorID,
		Schedule:         schedule,
		UnavailableDates: dates,
		UpdatedAt:        updatedAt.Time,
	}, nil
}

func (r *Repository) getUnavailableDates(ctx context.Context, executor DBExecutor, doctorID string) ([]domain.UnavailableDate, error) {
	query, args, err := psqlbuilder.Select("id", "unavailable_date", "reason", "type").
		From(unavailableTable).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		OrderBy("unavailable_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getUnavailableDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getUnavailableDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]domain.UnavailableDate, 0)
	for rows.Next() {
		var u domain.UnavailableDate
		var reason sql.NullString
		if err := rows.Scan(&u.ID, &u.Date, &reason, &u.Type); err != nil {
			return nil, fmt.Errorf("%w: getUnavailableDates - scan row: %v", ErrScanRow, err)
		}
		u.Date = domain.DateOnly(u.Date)
		u.Reason = reason.String
		dates = append(dates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getUnavailableDates - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}

// Save перезаписывает расписание и полный набор исключений врача в одной транзакции
func (r *Repository) Save(ctx context.Context, availability *domain.DoctorAvailability) error {
	raw, err := json.Marshal(availability.Schedule)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return r.txManager.Do(ctx, func(txCtx context.Context) error {
		executor := txmanager.GetExecutor(txCtx, r.db)

		upsert, args, err := psqlbuilder.Insert(scheduleTable).
			Columns("doctor_id", "weekly_schedule").
			Values(availability.DoctorID, raw).
			Suffix("ON CONFLICT (doctor_id) DO UPDATE SET weekly_schedule = EXCLUDED.weekly_schedule, updated_at = NOW()").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(txCtx, upsert, args...); err != nil {
			return fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
		}

		del, args, err := psqlbuilder.Delete(unavailableTable).
			Where(squirrel.Eq{"doctor_id": availability.DoctorID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Save - build delete query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(txCtx, del, args...); err != nil {
			return fmt.Errorf("%w: Save - execute delete: %v", ErrExecQuery, err)
		}

		if len(availability.UnavailableDates) == 0 {
			return nil
		}

		insert := psqlbuilder.Insert(unavailableTable).
			Columns("id", "doctor_id", "unavailable_date", "reason", "type")
		for _, u := range availability.UnavailableDates {
			insert = insert.Values(u.ID, availability.DoctorID, domain.DateOnly(u.Date), u.Reason, string(u.Type))
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
			return fmt.Errorf("%w: Save - execute insert: %v", ErrExecQuery, err)
		}

		return nil
	})
}
