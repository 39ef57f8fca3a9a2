package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/calendar"
	tenantRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// FallbackPolicy поведение для тенанта без единой записи о рабочих часах
type FallbackPolicy string

const (
	// PolicyClosed бизнес без настроенных часов считается закрытым
	PolicyClosed FallbackPolicy = "closed"
	// PolicyDefaultHours бизнес без настроенных часов работает по умолчанию 09:00-18:00
	PolicyDefaultHours FallbackPolicy = "default_hours"
)

// Options настройки календаря
type Options struct {
	Policy          FallbackPolicy
	FallbackOpen    types.TimeString
	FallbackClose   types.TimeString
	DefaultLocation *time.Location
}

// Service рабочий календарь бизнеса: открыт ли он в дату и какие окна работы
type Service struct {
	repo         CalendarRepository
	tenantRepo   TenantRepository
	txManager    TransactionManager
	invalidator  CacheInvalidator
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает календарь. Пустые поля opts заменяются значениями по умолчанию.
func NewService(
	repo CalendarRepository,
	tenantRepo TenantRepository,
	txManager TransactionManager,
	opts Options,
	logger Logger,
) *Service {
	if opts.Policy == "" {
		opts.Policy = PolicyClosed
	}
	if opts.FallbackOpen.IsZero() {
		opts.FallbackOpen = types.MustTimeString(domain.DefaultOpenTime)
	}
	if opts.FallbackClose.IsZero() {
		opts.FallbackClose = types.MustTimeString(domain.DefaultCloseTime)
	}
	if opts.DefaultLocation == nil {
		opts.DefaultLocation = time.UTC
	}
	return &Service{
		repo:         repo,
		tenantRepo:   tenantRepo,
		txManager:    txManager,
		invalidator:  nopInvalidator{},
		opts:         opts,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// WithInvalidator сбрасывает кэш календаря после фиксации транзакции записи
func (s *Service) WithInvalidator(inv CacheInvalidator) *Service {
	s.invalidator = inv
	return s
}

// Location часовой пояс тенанта с учетом значения по умолчанию
func (s *Service) Location(tenant *domain.Tenant) *time.Location {
	return tenant.Location(s.opts.DefaultLocation)
}

// IsOpen сообщает, работает ли бизнес в календарную дату date.
// Нерабочая дата перекрывает недельное расписание.
func (s *Service) IsOpen(ctx context.Context, tenantID int64, date time.Time) (bool, error) {
	_, open, err := s.resolve(ctx, tenantID, date)
	return open, err
}

// WindowsFor возвращает окно работы на дату. open=false означает, что бизнес закрыт
// и окно пустое.
func (s *Service) WindowsFor(ctx context.Context, tenantID int64, date time.Time) (domain.DayWindow, bool, error) {
	return s.resolve(ctx, tenantID, date)
}

func (s *Service) resolve(ctx context.Context, tenantID int64, date time.Time) (domain.DayWindow, bool, error) {
	closed, err := s.repo.IsClosedDate(ctx, tenantID, date)
	if err != nil {
		s.logger.Error("Calendar: tenant=%d closed date lookup failed: %v", tenantID, err)
		return domain.DayWindow{}, false, fmt.Errorf("%w: closed date lookup: %v", ErrInternal, err)
	}
	if closed {
		return domain.DayWindow{}, false, nil
	}

	day, err := s.repo.GetOperatingDay(ctx, tenantID, date.Weekday())
	switch {
	case err == nil:
		if !day.IsOpen {
			return domain.DayWindow{}, false, nil
		}
		return domain.WindowFromDay(day), true, nil

	case errors.Is(err, calendarRepo.ErrOperatingDayNotFound):
		return s.fallback(ctx, tenantID, date)

	default:
		s.logger.Error("Calendar: tenant=%d operating day lookup failed: %v", tenantID, err)
		return domain.DayWindow{}, false, fmt.Errorf("%w: operating day lookup: %v", ErrInternal, err)
	}
}

// fallback применяется, когда для дня недели нет записи
func (s *Service) fallback(ctx context.Context, tenantID int64, date time.Time) (domain.DayWindow, bool, error) {
	if s.opts.Policy != PolicyDefaultHours {
		return domain.DayWindow{}, false, nil
	}

	count, err := s.repo.CountOperatingDays(ctx, tenantID)
	if err != nil {
		s.logger.Error("Calendar: tenant=%d count operating days failed: %v", tenantID, err)
		return domain.DayWindow{}, false, fmt.Errorf("%w: count operating days: %v", ErrInternal, err)
	}
	// часть недели настроена - отсутствующий день означает выходной
	if count > 0 {
		return domain.DayWindow{}, false, nil
	}

	s.logger.Warn("Calendar: tenant=%d has no configured hours, date=%s served with %s-%s source=%s",
		tenantID, date.Format(domain.DateFormat), s.opts.FallbackOpen, s.opts.FallbackClose, domain.SourceFallback)

	return domain.DayWindow{
		Open:   s.opts.FallbackOpen,
		Close:  s.opts.FallbackClose,
		Source: domain.SourceFallback,
	}, true, nil
}

// ListOperatingDays возвращает настроенные часы работы бизнеса
func (s *Service) ListOperatingDays(ctx context.Context, tenantSlug string) ([]*domain.OperatingDay, error) {
	tenant, err := s.getTenant(ctx, "ListOperatingDays", tenantSlug)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.ListOperatingDays(ctx, tenant.ID)
	if err != nil {
		s.logger.Error("ListOperatingDays: tenant=%d repository error: %v", tenant.ID, err)
		return nil, fmt.Errorf("%w: ListOperatingDays - repository error: %v", ErrInternal, err)
	}
	return days, nil
}

// SetOperatingDay задает часы работы на день недели.
// У выходного дня время очищается, у рабочего проверяются инварианты записи.
func (s *Service) SetOperatingDay(ctx context.Context, tenantSlug string, in models.OperatingDayInput) (*domain.OperatingDay, error) {
	tenant, err := s.getTenant(ctx, "SetOperatingDay", tenantSlug)
	if err != nil {
		return nil, err
	}

	day := in.ToDomain(tenant.ID)
	day.Normalize()
	if err := day.Validate(); err != nil {
		s.logger.Warn("SetOperatingDay: tenant=%d weekday=%s rejected: %v", tenant.ID, day.Weekday, err)
		return nil, err
	}

	saved, err := s.repo.UpsertOperatingDay(ctx, day)
	if err != nil {
		s.logger.Error("SetOperatingDay: tenant=%d repository error: %v", tenant.ID, err)
		return nil, fmt.Errorf("%w: SetOperatingDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetOperatingDay: tenant=%d weekday=%s open=%t %s-%s",
		tenant.ID, saved.Weekday, saved.IsOpen, saved.OpenTime, saved.CloseTime)
	return saved, nil
}

// InitializeDefaultHours заводит расписание Пн-Пт 09:00-18:00, Сб-Вс выходные.
// Если у бизнеса уже есть хотя бы одна запись, возвращает текущее расписание без изменений.
func (s *Service) InitializeDefaultHours(ctx context.Context, tenantSlug string) ([]*domain.OperatingDay, error) {
	tenant, err := s.getTenant(ctx, "InitializeDefaultHours", tenantSlug)
	if err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		count, err := s.repo.CountOperatingDays(txCtx, tenant.ID)
		if err != nil {
			return fmt.Errorf("%w: count operating days: %v", ErrInternal, err)
		}
		if count > 0 {
			s.logger.Info("InitializeDefaultHours: tenant=%d already has %d records", tenant.ID, count)
			return nil
		}

		for _, day := range defaultWeek(tenant.ID) {
			if _, err := s.repo.UpsertOperatingDay(txCtx, day); err != nil {
				return fmt.Errorf("%w: upsert weekday %s: %v", ErrInternal, day.Weekday, err)
			}
		}
		s.logger.Info("InitializeDefaultHours: tenant=%d default week created", tenant.ID)
		return nil
	})
	if err != nil {
		s.logger.Error("InitializeDefaultHours: tenant=%d failed: %v", tenant.ID, err)
		return nil, err
	}
	// версия кэша меняется только после COMMIT
	s.invalidator.InvalidateTenant(tenant.ID)

	return s.ListOperatingDays(ctx, tenantSlug)
}

// AddClosedDate отмечает дату как нерабочую. Повторное добавление той же даты обновляет причину.
func (s *Service) AddClosedDate(ctx context.Context, tenantSlug string, in models.ClosedDateInput) (*domain.ClosedDate, error) {
	tenant, err := s.getTenant(ctx, "AddClosedDate", tenantSlug)
	if err != nil {
		return nil, err
	}

	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if in.Reason != nil && utf8.RuneCountInString(*in.Reason) > domain.MaxClosedDateReason {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxClosedDateReason)
	}

	// даты в формате YYYY-MM-DD сравниваются как строки
	today := s.timeProvider.Now().In(s.Location(tenant)).Format(domain.DateFormat)
	if in.Date.Format(domain.DateFormat) < today {
		return nil, fmt.Errorf("%w: closed date %s is in the past", ErrInvalidInput, in.Date.Format(domain.DateFormat))
	}

	saved, err := s.repo.AddClosedDate(ctx, &domain.ClosedDate{
		TenantID: tenant.ID,
		Date:     domain.DateOnly(in.Date),
		Reason:   in.Reason,
	})
	if err != nil {
		s.logger.Error("AddClosedDate: tenant=%d repository error: %v", tenant.ID, err)
		return nil, fmt.Errorf("%w: AddClosedDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddClosedDate: tenant=%d date=%s id=%d", tenant.ID, saved.Date.Format(domain.DateFormat), saved.ID)
	return saved, nil
}

// ListClosedDates возвращает предстоящие нерабочие даты (начиная с сегодняшней)
func (s *Service) ListClosedDates(ctx context.Context, tenantSlug string) ([]*domain.ClosedDate, error) {
	tenant, err := s.getTenant(ctx, "ListClosedDates", tenantSlug)
	if err != nil {
		return nil, err
	}

	today := domain.DateOnly(s.timeProvider.Now().In(s.Location(tenant)))
	dates, err := s.repo.ListClosedDates(ctx, tenant.ID, today)
	if err != nil {
		s.logger.Error("ListClosedDates: tenant=%d repository error: %v", tenant.ID, err)
		return nil, fmt.Errorf("%w: ListClosedDates - repository error: %v", ErrInternal, err)
	}
	return dates, nil
}

// DeleteClosedDate снимает отметку нерабочей даты
func (s *Service) DeleteClosedDate(ctx context.Context, tenantSlug string, id int64) error {
	tenant, err := s.getTenant(ctx, "DeleteClosedDate", tenantSlug)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteClosedDate(ctx, tenant.ID, id); err != nil {
		if errors.Is(err, calendarRepo.ErrClosedDateNotFound) {
			s.logger.Warn("DeleteClosedDate: tenant=%d closed date id=%d not found", tenant.ID, id)
			return ErrClosedDateNotFound
		}
		s.logger.Error("DeleteClosedDate: tenant=%d repository error: %v", tenant.ID, err)
		return fmt.Errorf("%w: DeleteClosedDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteClosedDate: tenant=%d closed date id=%d removed", tenant.ID, id)
	return nil
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

func defaultWeek(tenantID int64) []*domain.OperatingDay {
	open := types.MustTimeString(domain.DefaultOpenTime)
	closeAt := types.MustTimeString(domain.DefaultCloseTime)

	week := make([]*domain.OperatingDay, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day := &domain.OperatingDay{TenantID: tenantID, Weekday: wd}
		if wd != time.Saturday && wd != time.Sunday {
			day.IsOpen = true
			day.OpenTime = open
			day.CloseTime = closeAt
		}
		week = append(week, day)
	}
	return week
}
