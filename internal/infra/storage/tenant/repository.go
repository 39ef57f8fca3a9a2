package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository читает бизнесы (тенанты); создаются они вне этого сервиса
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return r.getOne(ctx, "GetBySlug", squirrel.Eq{"slug": slug})
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "slug", "name", "timezone", "active", "created_at").
		From("tenants").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var t domain.Tenant
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.Slug,
		&t.Name,
		&t.Timezone,
		&t.Active,
		&t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan tenant: %v", ErrScanRow, op, err)
	}

	return &t, nil
}
