package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	TransitionStatus(ctx context.Context, tenantID, id int64, from, to domain.ReservationStatus) (*domain.Reservation, error)
}

// TenantRepository интерфейс поиска бизнеса по slug
type TenantRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// EventPublisher интерфейс отправки событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

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
