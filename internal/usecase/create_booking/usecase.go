package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	tenantRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

// Options настройки допуска бронирований
type Options struct {
	// EnforceCalendar дополнительно проверять часы работы, перерыв и нерабочие даты
	EnforceCalendar bool
}

// UseCase use case для создания бронирования
type UseCase struct {
	tenantRepo      TenantRepository
	serviceRepo     ServiceRepository
	reservationRepo ReservationRepository
	calendar        Calendar
	txManager       TransactionManager
	publisher       EventPublisher
	opts            Options
	timeProvider    TimeProvider
	metrics         *metrics.Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	serviceRepo ServiceRepository,
	reservationRepo ReservationRepository,
	calendar Calendar,
	txManager TransactionManager,
	publisher EventPublisher,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:      tenantRepo,
		serviceRepo:     serviceRepo,
		reservationRepo: reservationRepo,
		calendar:        calendar,
		txManager:       txManager,
		publisher:       publisher,
		opts:            opts,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithMetrics включает счетчики исходов допуска
func (uc *UseCase) WithMetrics(m *metrics.Metrics) *UseCase {
	uc.metrics = m
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются под advisory-блокировкой тенанта
// в сериализуемой транзакции; exclusion constraint в БД страхует то же условие.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.observe(err)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%s, service=%d, date=%s, time=%s",
		req.TenantSlug, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 0. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 1. Бизнес существует и активен
	tenant, err := uc.tenantRepo.GetBySlug(ctx, req.TenantSlug)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("CreateBooking: tenant slug=%s not found", req.TenantSlug)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateBooking: failed to get tenant slug=%s: %v", req.TenantSlug, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	if !tenant.Active {
		uc.logger.Warn("CreateBooking: tenant id=%d is inactive", tenant.ID)
		return nil, ErrTenantInactive
	}

	// 2. Услуга существует, принадлежит бизнесу и активна
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.BelongsTo(tenant.ID) || !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d is not bookable for tenant id=%d", service.ID, tenant.ID)
		return nil, ErrServiceNotFound
	}

	// 3. Начало строго в будущем
	loc := uc.calendar.Location(tenant)
	y, m, d := req.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	start := req.StartTime.OnDate(day)
	now := uc.timeProvider.Now()

	if !start.After(now) {
		uc.logger.Warn("CreateBooking: start=%s is not after now=%s", start.Format(time.RFC3339), now.Format(time.RFC3339))
		return nil, ErrBookingInPast
	}

	// 4. Конец = начало + длительность услуги
	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	if uc.opts.EnforceCalendar {
		if err := uc.checkCalendar(ctx, tenant.ID, day, start, end); err != nil {
			return nil, err
		}
	}

	var created *domain.Reservation

	// 5. Проверка пересечений и вставка - критическая секция тенанта
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.reservationRepo.LockTenant(txCtx, tenant.ID); err != nil {
			return fmt.Errorf("%w: failed to lock tenant: %v", ErrInternal, err)
		}

		overlapping, err := uc.reservationRepo.ListOverlapping(txCtx, tenant.ID, start, end)
		if err != nil {
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: %s-%s overlaps reservation id=%d",
				start.Format(time.RFC3339), end.Format(time.RFC3339), overlapping[0].ID)
			return ErrSlotTaken
		}

		res, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			TenantID:      tenant.ID,
			ServiceID:     service.ID,
			StartTime:     start,
			EndTime:       end,
			CustomerName:  strings.TrimSpace(req.CustomerName),
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			Status:        domain.StatusConfirmed,
		})
		if err != nil {
			return err
		}
		created = res
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken):
			return nil, err
		case reservationRepo.IsConflict(err):
			// конфликт пойман constraint-ом или сериализацией; повтор - забота клиента
			uc.logger.Warn("CreateBooking: storage reported conflict for tenant id=%d: %v", tenant.ID, err)
			return nil, ErrSlotTaken
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateBooking: %v", err)
			return nil, err
		default:
			uc.logger.Error("CreateBooking: failed to create reservation: %v", err)
			return nil, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateBooking: successfully created reservation id=%d tenant=%d %s-%s",
		created.ID, tenant.ID, created.StartTime.Format(time.RFC3339), created.EndTime.Format(domain.TimeFormat))

	uc.publisher.Publish(ctx, eventbus.NewEvent(eventbus.EventBookingCreated, created, now))

	return &Response{
		ID:              created.ID,
		TenantID:        created.TenantID,
		ServiceID:       created.ServiceID,
		StartTime:       created.StartTime.In(loc),
		EndTime:         created.EndTime.In(loc),
		DurationMinutes: service.DurationMinutes,
		CustomerName:    created.CustomerName,
		CustomerPhone:   created.CustomerPhone,
		Status:          string(created.Status),
		ServiceName:     service.Name,
		ServicePrice:    service.Price,
		CreatedAt:       created.CreatedAt,
	}, nil
}

// checkCalendar отклоняет бронирование в нерабочий день, вне часов работы или в перерыв
func (uc *UseCase) checkCalendar(ctx context.Context, tenantID int64, day, start, end time.Time) error {
	window, open, err := uc.calendar.WindowsFor(ctx, tenantID, day)
	if err != nil {
		uc.logger.Error("CreateBooking: calendar error for tenant id=%d: %v", tenantID, err)
		return fmt.Errorf("%w: calendar: %v", ErrInternal, err)
	}
	if !open {
		uc.logger.Warn("CreateBooking: tenant id=%d is closed on %s", tenantID, day.Format(domain.DateFormat))
		return ErrBusinessClosed
	}
	if err := validateAgainstWindow(window, day, start, end); err != nil {
		uc.logger.Warn("CreateBooking: calendar rejected booking: %v", err)
		return err
	}
	return nil
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}
	result := "admitted"
	if err != nil {
		result = string(domain.KindOf(err))
	}
	uc.metrics.BookingAdmissions.WithLabelValues(result).Inc()
}
