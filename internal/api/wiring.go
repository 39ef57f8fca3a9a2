package api

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

// ReservationStore общий набор методов хранилища бронирований для всех потребителей
type ReservationStore interface {
	LockTenant(ctx context.Context, tenantID int64) error
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Reservation, error)
	ListOverlapping(ctx context.Context, tenantID int64, from, to time.Time) ([]*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	TransitionStatus(ctx context.Context, tenantID, id int64, from, to domain.ReservationStatus) (*domain.Reservation, error)
}

// TxManager транзакции хранилища
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher отправка событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// Storage репозитории выбранного драйвера
type Storage struct {
	Tenants      cache.TenantSource
	Services     cache.ServiceSource
	Calendar     cache.CalendarStore
	Reservations ReservationStore
	TxManager    TxManager
}

// EngineOptions настройки календаря и бронирования
type EngineOptions struct {
	Calendar        calendar.Options
	EnforceCalendar bool
	SlotStepMinutes int
	DefaultLocation *time.Location
}

// NewDependencies собирает сервисы и use cases поверх хранилища.
// Кэш (может быть nil) стоит только на пути чтения слотов и календаря:
// бронирование всегда читает бизнес и услугу из хранилища.
func NewDependencies(
	store Storage,
	refCache *cache.Cache,
	publisher EventPublisher,
	opts EngineOptions,
	log *logger.Logger,
	m *metrics.Metrics,
) Dependencies {
	cachedTenants := cache.NewTenantRepository(store.Tenants, refCache)
	cachedServices := cache.NewServiceRepository(store.Services, refCache)
	cachedCalendar := cache.NewCalendarRepository(store.Calendar, refCache)

	calendarOpts := opts.Calendar
	if calendarOpts.DefaultLocation == nil {
		calendarOpts.DefaultLocation = opts.DefaultLocation
	}
	calendarSvc := calendar.NewService(
		cachedCalendar,
		store.Tenants,
		store.TxManager,
		calendarOpts,
		log,
	).WithInvalidator(refCache)

	reservationsSvc := reservations.NewService(
		store.Reservations,
		store.Tenants,
		publisher,
		opts.DefaultLocation,
		log,
	)

	createBooking := createBookingUC.NewUseCase(
		store.Tenants,
		store.Services,
		store.Reservations,
		calendarSvc,
		store.TxManager,
		publisher,
		createBookingUC.Options{EnforceCalendar: opts.EnforceCalendar},
		log,
	).WithMetrics(m)

	getAvailableSlots := getAvailableSlotsUC.NewUseCase(
		cachedTenants,
		cachedServices,
		store.Reservations,
		calendarSvc,
		opts.SlotStepMinutes,
		log,
	).WithMetrics(m)

	return Dependencies{
		CreateBooking:     createBooking,
		GetAvailableSlots: getAvailableSlots,
		Reservations:      reservationsSvc,
		Calendar:          calendarSvc,
		Logger:            log,
		Metrics:           m,
	}
}
