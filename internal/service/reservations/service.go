package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	tenantRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations/models"
)

// Service действия владельца бизнеса над бронированиями: просмотр, отмена, завершение
type Service struct {
	repo            ReservationRepository
	tenantRepo      TenantRepository
	publisher       EventPublisher
	defaultLocation *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

// NewService создает сервис бронирований
func NewService(
	repo ReservationRepository,
	tenantRepo TenantRepository,
	publisher EventPublisher,
	defaultLocation *time.Location,
	logger Logger,
) *Service {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &Service{
		repo:            repo,
		tenantRepo:      tenantRepo,
		publisher:       publisher,
		defaultLocation: defaultLocation,
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Get возвращает бронирование бизнеса
func (s *Service) Get(ctx context.Context, tenantSlug string, id int64) (*domain.Reservation, error) {
	tenant, err := s.getTenant(ctx, "Get", tenantSlug)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.GetByID(ctx, tenant.ID, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Get: reservation id=%d not found for tenant=%d", id, tenant.ID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Get: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return res, nil
}

// List возвращает бронирования бизнеса; по умолчанию без отмененных
func (s *Service) List(ctx context.Context, req *models.ListRequest) ([]*domain.Reservation, error) {
	tenant, err := s.getTenant(ctx, "List", req.TenantSlug)
	if err != nil {
		return nil, err
	}
	loc := tenant.Location(s.defaultLocation)

	filter := domain.ReservationsFilter{
		TenantID:         tenant.ID,
		IncludeCancelled: req.IncludeCancelled,
	}

	date := req.Date
	if req.Today {
		today := s.timeProvider.Now().In(loc)
		date = &today
	}
	if date != nil {
		y, m, d := date.Date()
		from := time.Date(y, m, d, 0, 0, 0, 0, loc)
		to := from.AddDate(0, 0, 1)
		filter.From = &from
		filter.To = &to
	}

	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s for tenant=%d", *req.Status, tenant.ID)
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", tenant.ID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: tenant=%d returned %d reservations", tenant.ID, len(list))
	return list, nil
}

// Cancel переводит CONFIRMED бронирование в CANCELLED и освобождает его интервал
func (s *Service) Cancel(ctx context.Context, tenantSlug string, id int64) (*domain.Reservation, error) {
	return s.transition(ctx, "Cancel", tenantSlug, id, domain.StatusCancelled, eventbus.EventBookingCancelled)
}

// Complete переводит CONFIRMED бронирование в COMPLETED
func (s *Service) Complete(ctx context.Context, tenantSlug string, id int64) (*domain.Reservation, error) {
	return s.transition(ctx, "Complete", tenantSlug, id, domain.StatusCompleted, eventbus.EventBookingCompleted)
}

// transition повторная отмена или завершение терминального бронирования отклоняется
// с ErrInvalidTransition, а не игнорируется
func (s *Service) transition(
	ctx context.Context,
	op, tenantSlug string,
	id int64,
	to domain.ReservationStatus,
	eventType eventbus.EventType,
) (*domain.Reservation, error) {
	current, err := s.Get(ctx, tenantSlug, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(to) {
		s.logger.Warn("%s: reservation id=%d is already %s", op, id, current.Status)
		return nil, fmt.Errorf("%w: reservation is already %s", ErrInvalidTransition, current.Status)
	}

	updated, err := s.repo.TransitionStatus(ctx, current.TenantID, id, domain.StatusConfirmed, to)
	if err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrStatusChanged):
			s.logger.Warn("%s: reservation id=%d changed concurrently", op, id)
			return nil, fmt.Errorf("%w: reservation changed concurrently", ErrInvalidTransition)
		case errors.Is(err, reservationRepo.ErrReservationNotFound):
			return nil, ErrReservationNotFound
		default:
			s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
	}

	s.logger.Info("%s: reservation id=%d tenant=%d is now %s", op, id, updated.TenantID, updated.Status)
	s.publisher.Publish(ctx, eventbus.NewEvent(eventType, updated, s.timeProvider.Now()))
	return updated, nil
}

func (s *Service) getTenant(ctx context.Context, op, slug string) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant slug=%s not found", op, slug)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("%s: tenant slug=%s lookup failed: %v", op, slug, err)
		return nil, fmt.Errorf("%w: %s - tenant lookup: %v", ErrInternal, op, err)
	}
	return tenant, nil
}
