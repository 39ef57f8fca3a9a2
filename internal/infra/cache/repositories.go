package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/calendar"
)

// TenantSource источник тенантов
type TenantSource interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// ServiceSource источник услуг
type ServiceSource interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// CalendarStore хранилище календаря
type CalendarStore interface {
	GetOperatingDay(ctx context.Context, tenantID int64, weekday time.Weekday) (*domain.OperatingDay, error)
	ListOperatingDays(ctx context.Context, tenantID int64) ([]*domain.OperatingDay, error)
	CountOperatingDays(ctx context.Context, tenantID int64) (int, error)
	UpsertOperatingDay(ctx context.Context, day *domain.OperatingDay) (*domain.OperatingDay, error)
	IsClosedDate(ctx context.Context, tenantID int64, date time.Time) (bool, error)
	ListClosedDates(ctx context.Context, tenantID int64, from time.Time) ([]*domain.ClosedDate, error)
	AddClosedDate(ctx context.Context, cd *domain.ClosedDate) (*domain.ClosedDate, error)
	DeleteClosedDate(ctx context.Context, tenantID, id int64) error
}

// TenantRepository кэширующая обёртка над TenantSource
type TenantRepository struct {
	next  TenantSource
	cache *Cache
}

func NewTenantRepository(next TenantSource, cache *Cache) *TenantRepository {
	return &TenantRepository{next: next, cache: cache}
}

func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return GetOrLoad(ctx, r.cache, "tenant:"+slug, func(ctx context.Context) (*domain.Tenant, error) {
		return r.next.GetBySlug(ctx, slug)
	})
}

// ServiceRepository кэширующая обёртка над ServiceSource
type ServiceRepository struct {
	next  ServiceSource
	cache *Cache
}

func NewServiceRepository(next ServiceSource, cache *Cache) *ServiceRepository {
	return &ServiceRepository{next: next, cache: cache}
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	key := "service:" + strconv.FormatInt(id, 10)
	return GetOrLoad(ctx, r.cache, key, func(ctx context.Context) (*domain.Service, error) {
		return r.next.GetByID(ctx, id)
	})
}

// CalendarRepository кэширует чтения календаря; любая запись сбрасывает кэш тенанта
type CalendarRepository struct {
	next  CalendarStore
	cache *Cache
}

func NewCalendarRepository(next CalendarStore, cache *Cache) *CalendarRepository {
	return &CalendarRepository{next: next, cache: cache}
}

// operatingDayEntry хранит и найденную запись, и её отсутствие
type operatingDayEntry struct {
	day *domain.OperatingDay
	err error
}

func (r *CalendarRepository) GetOperatingDay(ctx context.Context, tenantID int64, weekday time.Weekday) (*domain.OperatingDay, error) {
	if r.cache == nil {
		return r.next.GetOperatingDay(ctx, tenantID, weekday)
	}
	entry, err := GetOrLoad(ctx, r.cache, r.cache.TenantKey(tenantID, "opday", int(weekday)),
		func(ctx context.Context) (operatingDayEntry, error) {
			day, err := r.next.GetOperatingDay(ctx, tenantID, weekday)
			if errors.Is(err, calendarRepo.ErrOperatingDayNotFound) {
				return operatingDayEntry{err: err}, nil
			}
			if err != nil {
				return operatingDayEntry{}, err
			}
			return operatingDayEntry{day: day}, nil
		})
	if err != nil {
		return nil, err
	}
	return entry.day, entry.err
}

func (r *CalendarRepository) ListOperatingDays(ctx context.Context, tenantID int64) ([]*domain.OperatingDay, error) {
	return r.next.ListOperatingDays(ctx, tenantID)
}

func (r *CalendarRepository) CountOperatingDays(ctx context.Context, tenantID int64) (int, error) {
	if r.cache == nil {
		return r.next.CountOperatingDays(ctx, tenantID)
	}
	return GetOrLoad(ctx, r.cache, r.cache.TenantKey(tenantID, "opcount"), func(ctx context.Context) (int, error) {
		return r.next.CountOperatingDays(ctx, tenantID)
	})
}

func (r *CalendarRepository) UpsertOperatingDay(ctx context.Context, day *domain.OperatingDay) (*domain.OperatingDay, error) {
	defer r.cache.InvalidateTenant(day.TenantID)
	return r.next.UpsertOperatingDay(ctx, day)
}

func (r *CalendarRepository) IsClosedDate(ctx context.Context, tenantID int64, date time.Time) (bool, error) {
	if r.cache == nil {
		return r.next.IsClosedDate(ctx, tenantID, date)
	}
	key := r.cache.TenantKey(tenantID, "closed", date.Format(domain.DateFormat))
	return GetOrLoad(ctx, r.cache, key, func(ctx context.Context) (bool, error) {
		return r.next.IsClosedDate(ctx, tenantID, date)
	})
}

func (r *CalendarRepository) ListClosedDates(ctx context.Context, tenantID int64, from time.Time) ([]*domain.ClosedDate, error) {
	return r.next.ListClosedDates(ctx, tenantID, from)
}

func (r *CalendarRepository) AddClosedDate(ctx context.Context, cd *domain.ClosedDate) (*domain.ClosedDate, error) {
	defer r.cache.InvalidateTenant(cd.TenantID)
	return r.next.AddClosedDate(ctx, cd)
}

func (r *CalendarRepository) DeleteClosedDate(ctx context.Context, tenantID, id int64) error {
	defer r.cache.InvalidateTenant(tenantID)
	return r.next.DeleteClosedDate(ctx, tenantID, id)
}
