// Package memstore хранилище в памяти с тем же контрактом, что и PostgreSQL репозитории.
// Используется в тестах и в режиме database.driver = "memory".
// Откат транзакций не поддерживается: записи, сделанные до ошибки, остаются.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
)

// Options поведение хранилища
type Options struct {
	// NoLocks делает LockTenant пустой операцией
	NoLocks bool
	// NoOverlapConstraint отключает проверку пересечений при вставке (аналог exclusion constraint)
	NoOverlapConstraint bool
}

// Store хранилище в памяти
type Store struct {
	mu           sync.RWMutex
	opts         Options
	nextID       int64
	tenants      map[int64]domain.Tenant
	services     map[int64]domain.Service
	days         map[int64]map[time.Weekday]domain.OperatingDay
	closed       map[int64]map[string]domain.ClosedDate
	reservations map[int64]domain.Reservation

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex

	now func() time.Time
}

// New создает пустое хранилище
func New(opts Options) *Store {
	return &Store{
		opts:         opts,
		tenants:      make(map[int64]domain.Tenant),
		services:     make(map[int64]domain.Service),
		days:         make(map[int64]map[time.Weekday]domain.OperatingDay),
		closed:       make(map[int64]map[string]domain.ClosedDate),
		reservations: make(map[int64]domain.Reservation),
		locks:        make(map[int64]*sync.Mutex),
		now:          time.Now,
	}
}

// Tenants репозиторий бизнесов
func (s *Store) Tenants() *Tenants { return &Tenants{s: s} }

// Services репозиторий каталога услуг
func (s *Store) Services() *Services { return &Services{s: s} }

// Calendar репозиторий рабочих часов и нерабочих дат
func (s *Store) Calendar() *Calendar { return &Calendar{s: s} }

// Reservations репозиторий бронирований
func (s *Store) Reservations() *Reservations { return &Reservations{s: s} }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

type txKey struct{}

// txState блокировки тенантов, взятые в рамках транзакции
type txState struct {
	held map[int64]*sync.Mutex
}

// Do выполняет fn в "транзакции"; вложенный вызов использует внешнюю
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{held: make(map[int64]*sync.Mutex)}
	defer func() {
		for _, l := range state.held {
			l.Unlock()
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, state))
}

// DoSerializable то же, что Do
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// DoReadOnly то же, что Do
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// lockTenant берет блокировку тенанта до конца транзакции
func (s *Store) lockTenant(ctx context.Context, tenantID int64) error {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		return reservationRepo.ErrNoTransaction
	}
	if s.opts.NoLocks {
		return nil
	}
	if _, held := state.held[tenantID]; held {
		return nil
	}

	s.locksMu.Lock()
	l, ok := s.locks[tenantID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[tenantID] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	state.held[tenantID] = l
	return nil
}
