package create_booking

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// понедельник
var day = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type recorder struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *recorder) Publish(_ context.Context, e eventbus.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

type fixture struct {
	store     *memstore.Store
	calendar  *calendar.Service
	tenant    *domain.Tenant
	service   *domain.Service
	publisher *recorder
	clock     fixedClock
}

func newFixture(t *testing.T, opts memstore.Options) *fixture {
	t.Helper()

	store := memstore.New(opts)
	tenant := store.Tenants().Add(domain.Tenant{Slug: "salon", Name: "Salon", Active: true})
	service := store.Services().Add(domain.Service{
		TenantID:        tenant.ID,
		Name:            "Haircut",
		DurationMinutes: 60,
		Price:           1500,
		Active:          true,
	})

	_, err := store.Calendar().UpsertOperatingDay(context.Background(), &domain.OperatingDay{
		TenantID:   tenant.ID,
		Weekday:    time.Monday,
		IsOpen:     true,
		OpenTime:   types.MustTimeString("09:00"),
		CloseTime:  types.MustTimeString("18:00"),
		BreakStart: types.MustTimeString("13:00"),
		BreakEnd:   types.MustTimeString("14:00"),
	})
	require.NoError(t, err)

	return &fixture{
		store:     store,
		calendar:  calendar.NewService(store.Calendar(), store.Tenants(), store, calendar.Options{}, logger.NewNop()),
		tenant:    tenant,
		service:   service,
		publisher: &recorder{},
		clock:     fixedClock(day.Add(8 * time.Hour)),
	}
}

func (f *fixture) useCase(opts Options) *UseCase {
	return NewUseCase(
		f.store.Tenants(),
		f.store.Services(),
		f.store.Reservations(),
		f.calendar,
		f.store,
		f.publisher,
		opts,
		logger.NewNop(),
	).WithTimeProvider(f.clock)
}

func (f *fixture) request(hhmm string) *Request {
	return &Request{
		TenantSlug:    "salon",
		ServiceID:     f.service.ID,
		Date:          day,
		StartTime:     types.MustTimeString(hhmm),
		CustomerName:  "Anna",
		CustomerPhone: "+79990000000",
	}
}

func at(hhmm string) time.Time {
	return types.MustTimeString(hhmm).OnDate(day)
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, memstore.Options{})

	resp, err := f.useCase(Options{}).Execute(context.Background(), f.request("10:00"))

	require.NoError(t, err)
	assert.Equal(t, at("10:00"), resp.StartTime)
	assert.Equal(t, at("11:00"), resp.EndTime)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, 60, resp.DurationMinutes)

	stored, err := f.store.Reservations().GetByID(context.Background(), f.tenant.ID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", stored.CustomerName)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, eventbus.EventBookingCreated, f.publisher.events[0].Type)
	assert.Equal(t, resp.ID, f.publisher.events[0].ReservationID)
}

func TestExecute_RejectsPast(t *testing.T) {
	f := newFixture(t, memstore.Options{})
	f.clock = fixedClock(at("10:00"))
	uc := f.useCase(Options{})

	_, err := uc.Execute(context.Background(), f.request("10:00"))
	assert.ErrorIs(t, err, ErrBookingInPast)
	assert.Equal(t, domain.KindBookingConflict, domain.KindOf(err))

	_, err = uc.Execute(context.Background(), f.request("09:00"))
	assert.ErrorIs(t, err, ErrBookingInPast)

	_, err = uc.Execute(context.Background(), f.request("10:30"))
	assert.NoError(t, err)
	assert.Len(t, f.publisher.events, 1)
}

func TestExecute_Overlap(t *testing.T) {
	f := newFixture(t, memstore.Options{})
	uc := f.useCase(Options{})
	ctx := context.Background()

	_, err := uc.Execute(ctx, f.request("10:00"))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, f.request("10:30"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, domain.KindBookingConflict, domain.KindOf(err))

	_, err = uc.Execute(ctx, f.request("09:30"))
	assert.ErrorIs(t, err, ErrSlotTaken)

	// интервалы [10:00,11:00) и [11:00,12:00) не пересекаются
	_, err = uc.Execute(ctx, f.request("11:00"))
	assert.NoError(t, err)
	_, err = uc.Execute(ctx, f.request("09:00"))
	assert.NoError(t, err)
}

func TestExecute_CancellationFreesInterval(t *testing.T) {
	f := newFixture(t, memstore.Options{})
	uc := f.useCase(Options{})
	ctx := context.Background()

	first, err := uc.Execute(ctx, f.request("10:00"))
	require.NoError(t, err)

	_, err = f.store.Reservations().TransitionStatus(ctx, f.tenant.ID, first.ID, domain.StatusConfirmed, domain.StatusCancelled)
	require.NoError(t, err)

	second, err := uc.Execute(ctx, f.request("10:00"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestExecute_TenantsAreIsolated(t *testing.T) {
	f := newFixture(t, memstore.Options{})
	other := f.store.Tenants().Add(domain.Tenant{Slug: "other", Active: true})
	otherService := f.store.Services().Add(domain.Service{TenantID: other.ID, DurationMinutes: 60, Active: true})
	uc := f.useCase(Options{})
	ctx := context.Background()

	_, err := uc.Execute(ctx, f.request("10:00"))
	require.NoError(t, err)

	req := f.request("10:00")
	req.TenantSlug = "other"
	req.ServiceID = otherService.ID
	_, err = uc.Execute(ctx, req)
	assert.NoError(t, err)
}

func TestExecute_AgreesWithSlots(t *testing.T) {
	f := newFixture(t, memstore.Options{})
	uc := f.useCase(Options{})
	slots := get_available_slots.NewUseCase(f.store.Tenants(), f.store.Services(), f.store.Reservations(), f.calendar, 0, logger.NewNop()).
		WithTimeProvider(f.clock)
	ctx := context.Background()

	slotAvailable := func(hhmm string) bool {
		resp, err := slots.Execute(ctx, &get_available_slots.Request{TenantSlug: "salon", ServiceID: f.service.ID, Date: day})
		require.NoError(t, err)
		for _, s := range resp.Slots {
			if s.StartTime.Equal(at(hhmm)) {
				return s.Available
			}
		}
		t.Fatalf("slot %s not generated", hhmm)
		return false
	}

	require.True(t, slotAvailable("11:00"))
	_, err := uc.Execute(ctx, f.request("11:00"))
	require.NoError(t, err)

	assert.False(t, slotAvailable("11:00"))
	assert.False(t, slotAvailable("10:30"))
	assert.True(t, slotAvailable("12:00"))

	_, err = uc.Execute(ctx, f.request("10:30"))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_ConcurrentRequestsNeverDoubleBook(t *testing.T) {
	tests := []struct {
		name string
		opts memstore.Options
	}{
		{name: "tenant lock", opts: memstore.Options{NoOverlapConstraint: true}},
		{name: "overlap constraint", opts: memstore.Options{NoLocks: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.opts)
			uc := f.useCase(Options{})

			const workers = 20
			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					// все запросы пересекаются с интервалом [10:00, 11:00)
					start := "10:00"
					if i%2 == 1 {
						start = "10:30"
					}
					_, err := uc.Execute(context.Background(), f.request(start))
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)

			var admitted int
			for err := range errs {
				if err == nil {
					admitted++
					continue
				}
				assert.ErrorIs(t, err, ErrSlotTaken)
			}
			assert.Equal(t, 1, admitted)

			list, err := f.store.Reservations().List(context.Background(), domain.ReservationsFilter{TenantID: f.tenant.ID})
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestExecute_EnforceCalendar(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		closed  bool
		wantErr error
	}{
		{name: "ends after close", start: "17:30", wantErr: ErrOutsideOperatingHours},
		{name: "before open", start: "08:30", wantErr: ErrOutsideOperatingHours},
		{name: "starts in break", start: "13:30", wantErr: ErrSlotInBreak},
		{name: "closed date", start: "10:00", closed: true, wantErr: ErrBusinessClosed},
		{name: "inside window", start: "12:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, memstore.Options{})
			f.clock = fixedClock(day.Add(-time.Hour))
			if tt.closed {
				_, err := f.store.Calendar().AddClosedDate(context.Background(), &domain.ClosedDate{TenantID: f.tenant.ID, Date: day})
				require.NoError(t, err)
			}

			_, err := f.useCase(Options{EnforceCalendar: true}).Execute(context.Background(), f.request(tt.start))

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.KindBookingConflict, domain.KindOf(err))
		})
	}
}

func TestExecute_CalendarNotEnforcedByDefault(t *testing.T) {
	f := newFixture(t, memstore.Options{})

	resp, err := f.useCase(Options{}).Execute(context.Background(), f.request("17:30"))

	require.NoError(t, err)
	assert.Equal(t, at("18:30"), resp.EndTime)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture, req *Request)
		wantErr error
		kind    domain.Kind
	}{
		{
			name:    "empty customer name",
			prepare: func(_ *fixture, req *Request) { req.CustomerName = "  " },
			wantErr: ErrInvalidInput,
			kind:    domain.KindInvalidInput,
		},
		{
			name:    "customer name too long",
			prepare: func(_ *fixture, req *Request) { req.CustomerName = strings.Repeat("a", domain.MaxCustomerName+1) },
			wantErr: ErrInvalidInput,
			kind:    domain.KindInvalidInput,
		},
		{
			name:    "phone too long",
			prepare: func(_ *fixture, req *Request) { req.CustomerPhone = strings.Repeat("1", domain.MaxCustomerPhone+1) },
			wantErr: ErrInvalidInput,
			kind:    domain.KindInvalidInput,
		},
		{
			name:    "missing start time",
			prepare: func(_ *fixture, req *Request) { req.StartTime = types.TimeString{} },
			wantErr: ErrInvalidInput,
			kind:    domain.KindInvalidInput,
		},
		{
			name:    "unknown tenant",
			prepare: func(_ *fixture, req *Request) { req.TenantSlug = "missing" },
			wantErr: ErrTenantNotFound,
			kind:    domain.KindResourceNotFound,
		},
		{
			name: "inactive tenant",
			prepare: func(f *fixture, req *Request) {
				f.store.Tenants().Add(domain.Tenant{Slug: "paused", Active: false})
				req.TenantSlug = "paused"
			},
			wantErr: ErrTenantInactive,
			kind:    domain.KindTenantInactive,
		},
		{
			name:    "unknown service",
			prepare: func(_ *fixture, req *Request) { req.ServiceID = 999 },
			wantErr: ErrServiceNotFound,
			kind:    domain.KindResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, memstore.Options{})
			req := f.request("10:00")
			tt.prepare(f, req)

			_, err := f.useCase(Options{}).Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.kind, domain.KindOf(err))
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestExecute_Metrics(t *testing.T) {
	f := newFixture(t, memstore.Options{})
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	uc := f.useCase(Options{}).WithMetrics(m)
	ctx := context.Background()

	_, err := uc.Execute(ctx, f.request("10:00"))
	require.NoError(t, err)
	_, err = uc.Execute(ctx, f.request("10:00"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingAdmissions.WithLabelValues("admitted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingAdmissions.WithLabelValues(string(domain.KindBookingConflict))))
}

func TestExecute_PhoneLengthCountsCharacters(t *testing.T) {
	f := newFixture(t, memstore.Options{})
	uc := f.useCase(Options{})

	// арабско-индийские цифры занимают по 2 байта
	req := f.request("10:00")
	req.CustomerPhone = strings.Repeat("٧", domain.MaxCustomerPhone)
	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	req = f.request("11:00")
	req.CustomerPhone = strings.Repeat("٧", domain.MaxCustomerPhone+1)
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ReadsCurrentTenantAndService(t *testing.T) {
	f := newFixture(t, memstore.Options{})
	uc := f.useCase(Options{})

	resp, err := uc.Execute(context.Background(), f.request("09:00"))
	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)

	// длительность берется из услуги на момент бронирования
	changed := *f.service
	changed.DurationMinutes = 120
	f.store.Services().Add(changed)

	resp, err = uc.Execute(context.Background(), f.request("14:00"))
	require.NoError(t, err)
	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, at("16:00"), resp.EndTime)

	paused := *f.tenant
	paused.Active = false
	f.store.Tenants().Add(paused)

	_, err = uc.Execute(context.Background(), f.request("16:00"))
	assert.ErrorIs(t, err, ErrTenantInactive)
}
