package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// TenantRepository интерфейс поиска бизнеса по slug
type TenantRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// ReservationRepository интерфейс чтения бронирований
type ReservationRepository interface {
	ListOverlapping(ctx context.Context, tenantID int64, from, to time.Time) ([]*domain.Reservation, error)
}

// Calendar рабочий календарь бизнеса
type Calendar interface {
	WindowsFor(ctx context.Context, tenantID int64, date time.Time) (domain.DayWindow, bool, error)
	Location(tenant *domain.Tenant) *time.Location
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
