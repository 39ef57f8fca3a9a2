package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func memStorage(store *memstore.Store) Storage {
	return Storage{
		Tenants:      store.Tenants(),
		Services:     store.Services(),
		Calendar:     store.Calendar(),
		Reservations: store.Reservations(),
		TxManager:    store,
	}
}

func TestNewDependencies_AdmissionReadsStorageNotCache(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(memstore.Options{})
	tenant := store.Tenants().Add(domain.Tenant{Slug: "salon", Name: "Salon", Active: true})
	service := store.Services().Add(domain.Service{TenantID: tenant.ID, Name: "Haircut", DurationMinutes: 60, Active: true})

	refCache, err := cache.New(1000, time.Hour, nil)
	require.NoError(t, err)
	t.Cleanup(refCache.Close)

	deps := NewDependencies(memStorage(store), refCache, eventbus.NopPublisher{}, EngineOptions{}, logger.NewNop(), nil)
	clock := fixedClock(now)
	deps.CreateBooking.WithTimeProvider(clock)
	deps.GetAvailableSlots.WithTimeProvider(clock)

	day := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	slotsReq := &getAvailableSlotsUC.Request{TenantSlug: "salon", ServiceID: service.ID, Date: day}
	book := func(hhmm string) (*createBookingUC.Response, error) {
		return deps.CreateBooking.Execute(ctx, &createBookingUC.Request{
			TenantSlug:    "salon",
			ServiceID:     service.ID,
			Date:          day,
			StartTime:     types.MustTimeString(hhmm),
			CustomerName:  "Anna",
			CustomerPhone: "+79990000000",
		})
	}

	// чтение слотов кладет бизнес и услугу в кэш
	_, err = deps.GetAvailableSlots.Execute(ctx, slotsReq)
	require.NoError(t, err)
	refCache.Wait()

	resp, err := book("10:00")
	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)

	longer := *service
	longer.DurationMinutes = 120
	store.Services().Add(longer)

	resp, err = book("14:00")
	require.NoError(t, err)
	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, time.Date(2026, 11, 2, 16, 0, 0, 0, time.UTC), resp.EndTime)

	paused := *tenant
	paused.Active = false
	store.Tenants().Add(paused)

	_, err = book("17:00")
	assert.ErrorIs(t, err, createBookingUC.ErrTenantInactive)
	assert.Equal(t, domain.KindTenantInactive, domain.KindOf(err))

	// слоты могут отставать на время жизни кэша
	_, err = deps.GetAvailableSlots.Execute(ctx, slotsReq)
	assert.NoError(t, err)
}

func TestNewDependencies_WithoutCache(t *testing.T) {
	store := memstore.New(memstore.Options{})
	store.Tenants().Add(domain.Tenant{Slug: "salon", Active: true})

	deps := NewDependencies(memStorage(store), nil, eventbus.NopPublisher{}, EngineOptions{}, logger.NewNop(), nil)

	days, err := deps.Calendar.InitializeDefaultHours(context.Background(), "salon")
	require.NoError(t, err)
	assert.Len(t, days, 7)
}
