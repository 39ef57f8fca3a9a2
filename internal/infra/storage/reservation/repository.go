package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"tenant_id",
	"service_id",
	"start_time",
	"end_time",
	"customer_name",
	"customer_phone",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockTenant берет транзакционную advisory-блокировку на тенанта.
// Блокировка снимается при COMMIT/ROLLBACK, поэтому вызывается только внутри транзакции.
// Разные тенанты друг друга не блокируют.
func (r *Repository) LockTenant(ctx context.Context, tenantID int64) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", tenantID); err != nil {
		return fmt.Errorf("%w: LockTenant - tenant=%d: %v", ErrExecQuery, tenantID, err)
	}
	return nil
}

// Create вставляет бронирование.
// Пересечение, пойманное constraint-ом reservations_no_overlap, возвращается как ErrOverlap.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"tenant_id",
			"service_id",
			"start_time",
			"end_time",
			"customer_name",
			"customer_phone",
			"status",
		).
		Values(
			res.TenantID,
			res.ServiceID,
			res.StartTime,
			res.EndTime,
			res.CustomerName,
			res.CustomerPhone,
			res.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if IsConflict(err) {
			return nil, fmt.Errorf("%w: Create - %v", ErrOverlap, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование тенанта по ID
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("reservations").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}
	return res, nil
}

// ListOverlapping возвращает неотмененные бронирования тенанта,
// пересекающиеся с [from, to): start < to AND end > from
func (r *Repository) ListOverlapping(ctx context.Context, tenantID int64, from, to time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("reservations").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// List возвращает бронирования тенанта по фильтру
func (r *Repository) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("reservations").
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_time": *filter.To})
	}

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		builder = builder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	query, args, err := builder.OrderBy("start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// TransitionStatus переводит бронирование из from в to одним условным UPDATE.
// Если бронирование существует, но уже не в статусе from, возвращает ErrStatusChanged.
func (r *Repository) TransitionStatus(
	ctx context.Context,
	tenantID, id int64,
	from, to domain.ReservationStatus,
) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID, "status": from}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, tenantID, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusChanged
	}
	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID,
		&res.TenantID,
		&res.ServiceID,
		&res.StartTime,
		&res.EndTime,
		&res.CustomerName,
		&res.CustomerPhone,
		&res.Status,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan reservation: %v", ErrScanRow, err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}
	return result, nil
}
