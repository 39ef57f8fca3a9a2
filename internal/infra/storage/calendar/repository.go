package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

var operatingDayColumns = []string{
	"id",
	"tenant_id",
	"weekday",
	"is_open",
	"open_time",
	"close_time",
	"break_start",
	"break_end",
}

// Repository хранит рабочие часы по дням недели и нерабочие даты
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOperatingDay возвращает запись для дня недели
func (r *Repository) GetOperatingDay(ctx context.Context, tenantID int64, weekday time.Weekday) (*domain.OperatingDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(operatingDayColumns...).
		From("operating_days").
		Where(squirrel.Eq{"tenant_id": tenantID, "weekday": int(weekday)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingDay - build select query: %v", ErrBuildQuery, err)
	}

	day, err := scanOperatingDay(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOperatingDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingDay - scan: %v", ErrScanRow, err)
	}
	return day, nil
}

// ListOperatingDays возвращает все записи тенанта, упорядоченные по дню недели
func (r *Repository) ListOperatingDays(ctx context.Context, tenantID int64) ([]*domain.OperatingDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(operatingDayColumns...).
		From("operating_days").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOperatingDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOperatingDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.OperatingDay, 0, 7)
	for rows.Next() {
		day, err := scanOperatingDay(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOperatingDays - scan: %v", ErrScanRow, err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOperatingDays - rows error: %v", ErrScanRow, err)
	}
	return days, nil
}

// CountOperatingDays количество настроенных дней недели у тенанта
func (r *Repository) CountOperatingDays(ctx context.Context, tenantID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("operating_days").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountOperatingDays - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountOperatingDays - scan: %v", ErrScanRow, err)
	}
	return count, nil
}

// UpsertOperatingDay создает или заменяет запись (tenant_id, weekday)
func (r *Repository) UpsertOperatingDay(ctx context.Context, day *domain.OperatingDay) (*domain.OperatingDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("operating_days").
		Columns("tenant_id", "weekday", "is_open", "open_time", "close_time", "break_start", "break_end").
		Values(day.TenantID, int(day.Weekday), day.IsOpen, day.OpenTime, day.CloseTime, day.BreakStart, day.BreakEnd).
		Suffix(`ON CONFLICT (tenant_id, weekday) DO UPDATE SET
			is_open = EXCLUDED.is_open,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end
			RETURNING id`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOperatingDay - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&day.ID); err != nil {
		return nil, fmt.Errorf("%w: UpsertOperatingDay - execute insert: %v", ErrExecQuery, err)
	}
	return day, nil
}

// IsClosedDate проверяет, отмечена ли дата как нерабочая
func (r *Repository) IsClosedDate(ctx context.Context, tenantID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		Prefix("SELECT EXISTS (").
		From("closed_dates").
		Where(squirrel.Eq{"tenant_id": tenantID, "date": date.Format(domain.DateFormat)}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsClosedDate - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: IsClosedDate - scan: %v", ErrScanRow, err)
	}
	return exists, nil
}

// ListClosedDates нерабочие даты начиная с from (включительно)
func (r *Repository) ListClosedDates(ctx context.Context, tenantID int64, from time.Time) ([]*domain.ClosedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "tenant_id", "date", "reason", "created_at").
		From("closed_dates").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListClosedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListClosedDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ClosedDate, 0)
	for rows.Next() {
		var cd domain.ClosedDate
		if err := rows.Scan(&cd.ID, &cd.TenantID, &cd.Date, &cd.Reason, &cd.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListClosedDates - scan: %v", ErrScanRow, err)
		}
		result = append(result, &cd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListClosedDates - rows error: %v", ErrScanRow, err)
	}
	return result, nil
}

// AddClosedDate добавляет нерабочую дату; повторное добавление обновляет причину
func (r *Repository) AddClosedDate(ctx context.Context, cd *domain.ClosedDate) (*domain.ClosedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("closed_dates").
		Columns("tenant_id", "date", "reason").
		Values(cd.TenantID, cd.Date.Format(domain.DateFormat), cd.Reason).
		Suffix("ON CONFLICT (tenant_id, date) DO UPDATE SET reason = EXCLUDED.reason RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddClosedDate - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&cd.ID, &cd.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: AddClosedDate - execute insert: %v", ErrExecQuery, err)
	}
	return cd, nil
}

// DeleteClosedDate удаляет нерабочую дату тенанта
func (r *Repository) DeleteClosedDate(ctx context.Context, tenantID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("closed_dates").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteClosedDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteClosedDate - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteClosedDate - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrClosedDateNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOperatingDay(row rowScanner) (*domain.OperatingDay, error) {
	var (
		day     domain.OperatingDay
		weekday int
	)
	err := row.Scan(
		&day.ID,
		&day.TenantID,
		&weekday,
		&day.IsOpen,
		&day.OpenTime,
		&day.CloseTime,
		&day.BreakStart,
		&day.BreakEnd,
	)
	if err != nil {
		return nil, err
	}
	day.Weekday = time.Weekday(weekday)
	return &day, nil
}
