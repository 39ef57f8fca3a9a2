package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	tenantRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

// UseCase use case для получения слотов услуги на дату
type UseCase struct {
	tenantRepo      TenantRepository
	serviceRepo     ServiceRepository
	reservationRepo ReservationRepository
	calendar        Calendar
	step            time.Duration
	timeProvider    TimeProvider
	metrics         *metrics.Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case; stepMinutes <= 0 означает шаг по умолчанию
func NewUseCase(
	tenantRepo TenantRepository,
	serviceRepo ServiceRepository,
	reservationRepo ReservationRepository,
	calendar Calendar,
	stepMinutes int,
	logger Logger,
) *UseCase {
	if stepMinutes <= 0 {
		stepMinutes = domain.SlotStepMinutes
	}
	return &UseCase{
		tenantRepo:      tenantRepo,
		serviceRepo:     serviceRepo,
		reservationRepo: reservationRepo,
		calendar:        calendar,
		step:            time.Duration(stepMinutes) * time.Minute,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithMetrics включает счетчики запросов
func (uc *UseCase) WithMetrics(m *metrics.Metrics) *UseCase {
	uc.metrics = m
	return uc
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%s, service=%d, date=%s",
		req.TenantSlug, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес
	tenant, err := uc.tenantRepo.GetBySlug(ctx, req.TenantSlug)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant slug=%s not found", req.TenantSlug)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get tenant slug=%s: %v", req.TenantSlug, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	if !tenant.Active {
		uc.logger.Warn("GetAvailableSlots: tenant id=%d is inactive", tenant.ID)
		return nil, ErrTenantInactive
	}

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.BelongsTo(tenant.ID) || !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not bookable for tenant id=%d", service.ID, tenant.ID)
		return nil, ErrServiceNotFound
	}

	// 4. Дата в часовом поясе бизнеса
	loc := uc.calendar.Location(tenant)
	y, m, d := req.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	resp := &Response{
		Date:      day,
		TenantID:  tenant.ID,
		ServiceID: service.ID,
		Slots:     []domain.Slot{},
	}

	// 5. Часы работы
	window, open, err := uc.calendar.WindowsFor(ctx, tenant.ID, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: calendar error for tenant id=%d: %v", tenant.ID, err)
		return nil, fmt.Errorf("%w: calendar: %v", ErrInternal, err)
	}
	if !open {
		uc.logger.Info("GetAvailableSlots: tenant id=%d is closed on %s", tenant.ID, day.Format(domain.DateFormat))
		uc.observe("closed")
		return resp, nil
	}
	resp.Source = window.Source

	// 6. Неотмененные бронирования за сутки
	busy, err := uc.reservationRepo.ListOverlapping(ctx, tenant.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты
	resp.Slots = slices.Collect(GenerateSlots(SlotParams{
		Date:     day,
		Window:   window,
		Duration: time.Duration(service.DurationMinutes) * time.Minute,
		Step:     uc.step,
		Now:      uc.timeProvider.Now(),
		Busy:     busy,
	}))
	if resp.Slots == nil {
		resp.Slots = []domain.Slot{}
	}
	uc.observe(string(window.Source))

	uc.logger.Info("GetAvailableSlots: generated %d slots for tenant=%d, service=%d, date=%s, source=%s",
		len(resp.Slots), tenant.ID, service.ID, day.Format(domain.DateFormat), window.Source)

	return resp, nil
}

func (uc *UseCase) observe(source string) {
	if uc.metrics != nil {
		uc.metrics.SlotQueries.WithLabelValues(source).Inc()
	}
}
