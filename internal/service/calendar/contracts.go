package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CalendarRepository интерфейс хранилища рабочих часов и нерабочих дат
type CalendarRepository interface {
	GetOperatingDay(ctx context.Context, tenantID int64, weekday time.Weekday) (*domain.OperatingDay, error)
	ListOperatingDays(ctx context.Context, tenantID int64) ([]*domain.OperatingDay, error)
	CountOperatingDays(ctx context.Context, tenantID int64) (int, error)
	UpsertOperatingDay(ctx context.Context, day *domain.OperatingDay) (*domain.OperatingDay, error)
	IsClosedDate(ctx context.Context, tenantID int64, date time.Time) (bool, error)
	ListClosedDates(ctx context.Context, tenantID int64, from time.Time) ([]*domain.ClosedDate, error)
	AddClosedDate(ctx context.Context, cd *domain.ClosedDate) (*domain.ClosedDate, error)
	DeleteClosedDate(ctx context.Context, tenantID, id int64) error
}

// TenantRepository интерфейс поиска бизнеса по slug
type TenantRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator сбрасывает закэшированный календарь бизнеса
type CacheInvalidator interface {
	InvalidateTenant(tenantID int64)
}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateTenant(int64) {}

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }
