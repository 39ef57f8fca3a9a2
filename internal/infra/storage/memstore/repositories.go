package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/calendar"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	tenantRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/tenant"
)

// Tenants бизнесы
type Tenants struct{ s *Store }

// Add сохраняет бизнес; нулевой ID заменяется сгенерированным
func (r *Tenants) Add(t domain.Tenant) *domain.Tenant {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if t.ID == 0 {
		t.ID = r.s.id()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.s.now()
	}
	r.s.tenants[t.ID] = t
	return &t
}

// GetBySlug возвращает бизнес по slug
func (r *Tenants) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tenants {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, tenantRepo.ErrTenantNotFound
}

// GetByID возвращает бизнес по ID
func (r *Tenants) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tenants[id]
	if !ok {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return &t, nil
}

// Services каталог услуг
type Services struct{ s *Store }

// Add сохраняет услугу; нулевой ID заменяется сгенерированным
func (r *Services) Add(svc domain.Service) *domain.Service {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if svc.ID == 0 {
		svc.ID = r.s.id()
	}
	r.s.services[svc.ID] = svc
	return &svc
}

// GetByID возвращает услугу по ID
func (r *Services) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	svc, ok := r.s.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return &svc, nil
}

// Calendar рабочие часы и нерабочие даты
type Calendar struct{ s *Store }

// GetOperatingDay возвращает запись дня недели
func (r *Calendar) GetOperatingDay(_ context.Context, tenantID int64, weekday time.Weekday) (*domain.OperatingDay, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	day, ok := r.s.days[tenantID][weekday]
	if !ok {
		return nil, calendarRepo.ErrOperatingDayNotFound
	}
	return &day, nil
}

// ListOperatingDays записи тенанта по возрастанию дня недели
func (r *Calendar) ListOperatingDays(_ context.Context, tenantID int64) ([]*domain.OperatingDay, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.OperatingDay, 0, len(r.s.days[tenantID]))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if day, ok := r.s.days[tenantID][wd]; ok {
			result = append(result, &day)
		}
	}
	return result, nil
}

// CountOperatingDays количество записей тенанта
func (r *Calendar) CountOperatingDays(_ context.Context, tenantID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.days[tenantID]), nil
}

// UpsertOperatingDay создает или заменяет запись (tenant, weekday)
func (r *Calendar) UpsertOperatingDay(_ context.Context, day *domain.OperatingDay) (*domain.OperatingDay, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	week, ok := r.s.days[day.TenantID]
	if !ok {
		week = make(map[time.Weekday]domain.OperatingDay)
		r.s.days[day.TenantID] = week
	}

	stored := *day
	if existing, ok := week[day.Weekday]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = r.s.id()
	}
	week[day.Weekday] = stored
	return &stored, nil
}

// IsClosedDate проверяет, отмечена ли дата как нерабочая
func (r *Calendar) IsClosedDate(_ context.Context, tenantID int64, date time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.closed[tenantID][date.Format(domain.DateFormat)]
	return ok, nil
}

// ListClosedDates нерабочие даты начиная с from, по возрастанию
func (r *Calendar) ListClosedDates(_ context.Context, tenantID int64, from time.Time) ([]*domain.ClosedDate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	fromKey := from.Format(domain.DateFormat)
	keys := make([]string, 0, len(r.s.closed[tenantID]))
	for key := range r.s.closed[tenantID] {
		if key >= fromKey {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	result := make([]*domain.ClosedDate, 0, len(keys))
	for _, key := range keys {
		cd := r.s.closed[tenantID][key]
		result = append(result, &cd)
	}
	return result, nil
}

// AddClosedDate добавляет нерабочую дату; повторное добавление обновляет причину
func (r *Calendar) AddClosedDate(_ context.Context, cd *domain.ClosedDate) (*domain.ClosedDate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	dates, ok := r.s.closed[cd.TenantID]
	if !ok {
		dates = make(map[string]domain.ClosedDate)
		r.s.closed[cd.TenantID] = dates
	}

	key := cd.Date.Format(domain.DateFormat)
	stored := *cd
	if existing, ok := dates[key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.ID = r.s.id()
		stored.CreatedAt = r.s.now()
	}
	dates[key] = stored
	return &stored, nil
}

// DeleteClosedDate удаляет нерабочую дату тенанта
func (r *Calendar) DeleteClosedDate(_ context.Context, tenantID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for key, cd := range r.s.closed[tenantID] {
		if cd.ID == id {
			delete(r.s.closed[tenantID], key)
			return nil
		}
	}
	return calendarRepo.ErrClosedDateNotFound
}

// Reservations бронирования
type Reservations struct{ s *Store }

// LockTenant блокировка тенанта до конца транзакции
func (r *Reservations) LockTenant(ctx context.Context, tenantID int64) error {
	return r.s.lockTenant(ctx, tenantID)
}

// Create сохраняет бронирование; пересечение с неотмененным дает ErrOverlap
func (r *Reservations) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.opts.NoOverlapConstraint && res.HoldsTime() {
		for _, existing := range r.s.reservations {
			if existing.TenantID == res.TenantID && existing.HoldsTime() && existing.Overlaps(res.StartTime, res.EndTime) {
				return nil, reservationRepo.ErrOverlap
			}
		}
	}

	stored := *res
	stored.ID = r.s.id()
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.reservations[stored.ID] = stored
	return &stored, nil
}

// GetByID возвращает бронирование тенанта
func (r *Reservations) GetByID(_ context.Context, tenantID, id int64) (*domain.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res, ok := r.s.reservations[id]
	if !ok || res.TenantID != tenantID {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return &res, nil
}

// ListOverlapping неотмененные бронирования тенанта, пересекающиеся с [from, to)
func (r *Reservations) ListOverlapping(_ context.Context, tenantID int64, from, to time.Time) ([]*domain.Reservation, error) {
	return r.collect(func(res domain.Reservation) bool {
		return res.TenantID == tenantID && res.HoldsTime() && res.Overlaps(from, to)
	}), nil
}

// List бронирования тенанта по фильтру
func (r *Reservations) List(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	return r.collect(func(res domain.Reservation) bool {
		if res.TenantID != filter.TenantID {
			return false
		}
		if filter.From != nil && res.StartTime.Before(*filter.From) {
			return false
		}
		if filter.To != nil && !res.StartTime.Before(*filter.To) {
			return false
		}
		if filter.Status != nil {
			return res.Status == *filter.Status
		}
		return filter.IncludeCancelled || res.HoldsTime()
	}), nil
}

// TransitionStatus меняет статус, только если текущий равен from
func (r *Reservations) TransitionStatus(
	_ context.Context,
	tenantID, id int64,
	from, to domain.ReservationStatus,
) (*domain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res, ok := r.s.reservations[id]
	if !ok || res.TenantID != tenantID {
		return nil, reservationRepo.ErrReservationNotFound
	}
	if res.Status != from {
		return nil, reservationRepo.ErrStatusChanged
	}

	res.Status = to
	res.UpdatedAt = r.s.now()
	r.s.reservations[id] = res
	return &res, nil
}

func (r *Reservations) collect(match func(domain.Reservation) bool) []*domain.Reservation {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Reservation, 0)
	for _, res := range r.s.reservations {
		if match(res) {
			result = append(result, &res)
		}
	}
	slices.SortFunc(result, func(a, b *domain.Reservation) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result
}
