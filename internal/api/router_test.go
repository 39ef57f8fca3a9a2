package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

// 2026-11-02 - понедельник
var now = time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type testServer struct {
	router  http.Handler
	store   *memstore.Store
	service *domain.Service
}

func newTestServer(t *testing.T, limiter ...*middleware.RateLimiter) *testServer {
	t.Helper()

	store := memstore.New(memstore.Options{})
	tenant := store.Tenants().Add(domain.Tenant{Slug: "salon", Name: "Salon", Active: true})
	store.Tenants().Add(domain.Tenant{Slug: "paused", Name: "Paused", Active: false})
	service := store.Services().Add(domain.Service{TenantID: tenant.ID, Name: "Haircut", DurationMinutes: 60, Price: 1500, Active: true})

	refCache, err := cache.New(1000, time.Hour, nil)
	require.NoError(t, err)
	t.Cleanup(refCache.Close)

	clock := fixedClock(now)
	deps := NewDependencies(memStorage(store), refCache, eventbus.NopPublisher{}, EngineOptions{}, logger.NewNop(), nil)
	deps.CreateBooking.WithTimeProvider(clock)
	deps.GetAvailableSlots.WithTimeProvider(clock)
	deps.Reservations.WithTimeProvider(clock)
	deps.Calendar.WithTimeProvider(clock)
	if len(limiter) > 0 {
		deps.RateLimiter = limiter[0]
	}

	return &testServer{router: NewRouter(deps), store: store, service: service}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, owner bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if owner {
		req.Header.Set("X-User-ID", "1")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) slotsPath() string {
	return fmt.Sprintf("/api/v1/tenants/salon/available-slots?serviceId=%d&date=2026-11-02", s.service.ID)
}

func (s *testServer) booking(start string) map[string]interface{} {
	return map[string]interface{}{
		"serviceId":     s.service.ID,
		"date":          "2026-11-02",
		"startTime":     start,
		"customerName":  "Anna",
		"customerPhone": "+79990000000",
	}
}

type slotsBody struct {
	Date   string `json:"date"`
	Source string `json:"source"`
	Slots  []struct {
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Available bool   `json:"available"`
	} `json:"slots"`
}

func availableAt(body slotsBody, startTime string) bool {
	for _, s := range body.Slots {
		if s.StartTime == startTime {
			return s.Available
		}
	}
	return false
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)

	// расписание еще не настроено - бизнес закрыт
	rec := s.do(t, http.MethodGet, s.slotsPath(), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[slotsBody](t, rec).Slots)

	// владелец заводит расписание по умолчанию
	rec = s.do(t, http.MethodPost, "/api/v1/tenants/salon/hours/defaults", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[[]handlers.OperatingDayResponse](t, rec), 7)

	rec = s.do(t, http.MethodGet, s.slotsPath(), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[slotsBody](t, rec)
	assert.Equal(t, "2026-11-02", body.Date)
	assert.Equal(t, "configured", body.Source)
	require.NotEmpty(t, body.Slots)
	assert.True(t, availableAt(body, "2026-11-02T10:00:00Z"))

	// клиент бронирует слот
	rec = s.do(t, http.MethodPost, "/api/v1/tenants/salon/bookings", s.booking("10:00"), false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "confirmed", created["status"])
	assert.Equal(t, "2026-11-02T11:00:00Z", created["endTime"])
	bookingID := int64(created["id"].(float64))

	// повторное бронирование того же интервала
	rec = s.do(t, http.MethodPost, "/api/v1/tenants/salon/bookings", s.booking("10:30"), false)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.KindBookingConflict, decode[handlers.ErrorResponse](t, rec).Kind)

	rec = s.do(t, http.MethodGet, s.slotsPath(), nil, false)
	assert.False(t, availableAt(decode[slotsBody](t, rec), "2026-11-02T10:00:00Z"))

	// владелец видит бронирование и отменяет его
	rec = s.do(t, http.MethodGet, "/api/v1/tenants/salon/bookings?date=2026-11-02", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]handlers.ReservationResponse](t, rec), 1)

	cancelPath := fmt.Sprintf("/api/v1/tenants/salon/bookings/%d/cancel", bookingID)
	rec = s.do(t, http.MethodPatch, cancelPath, nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", decode[handlers.ReservationResponse](t, rec).Status)

	rec = s.do(t, http.MethodPatch, cancelPath, nil, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// интервал снова свободен
	rec = s.do(t, http.MethodGet, s.slotsPath(), nil, false)
	assert.True(t, availableAt(decode[slotsBody](t, rec), "2026-11-02T10:00:00Z"))
}

func TestClosedDates(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/tenants/salon/hours/defaults", nil, true).Code)

	rec := s.do(t, http.MethodPost, "/api/v1/tenants/salon/closed-dates",
		map[string]interface{}{"date": "2026-11-02", "reason": "Holiday"}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	closed := decode[handlers.ClosedDateResponse](t, rec)

	rec = s.do(t, http.MethodGet, s.slotsPath(), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[slotsBody](t, rec).Slots)

	rec = s.do(t, http.MethodGet, "/api/v1/tenants/salon/closed-dates", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]handlers.ClosedDateResponse](t, rec), 1)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/tenants/salon/closed-dates/%d", closed.ID), nil, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/tenants/salon/closed-dates/%d", closed.ID), nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, s.slotsPath(), nil, false)
	assert.NotEmpty(t, decode[slotsBody](t, rec).Slots)
}

func TestUpdateOperatingDay(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/v1/tenants/salon/hours/monday", map[string]interface{}{
		"isOpen":     true,
		"openTime":   "10:00",
		"closeTime":  "14:00",
		"breakStart": "12:00",
		"breakEnd":   "12:30",
	}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	day := decode[handlers.OperatingDayResponse](t, rec)
	assert.Equal(t, 1, day.Weekday)
	require.NotNil(t, day.OpenTime)
	assert.Equal(t, "10:00", *day.OpenTime)

	rec = s.do(t, http.MethodGet, s.slotsPath(), nil, false)
	body := decode[slotsBody](t, rec)
	require.Len(t, body.Slots, 7)
	assert.False(t, availableAt(body, "2026-11-02T12:00:00Z"))

	// инварианты записи проверяются при записи
	rec = s.do(t, http.MethodPut, "/api/v1/tenants/salon/hours/1", map[string]interface{}{
		"isOpen":    true,
		"openTime":  "18:00",
		"closeTime": "09:00",
	}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, domain.KindInvalidConfiguration, decode[handlers.ErrorResponse](t, rec).Kind)

	rec = s.do(t, http.MethodPut, "/api/v1/tenants/salon/hours/funday", map[string]interface{}{"isOpen": false}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		owner      bool
		wantStatus int
	}{
		{"unknown tenant", http.MethodGet, "/api/v1/tenants/nope/available-slots?serviceId=1&date=2026-11-02", nil, false, http.StatusNotFound},
		{"inactive tenant", http.MethodPost, "/api/v1/tenants/paused/bookings", s.booking("10:00"), false, http.StatusForbidden},
		{"past booking", http.MethodPost, "/api/v1/tenants/salon/bookings", map[string]interface{}{
			"serviceId": s.service.ID, "date": "2026-10-30", "startTime": "10:00", "customerName": "A", "customerPhone": "1",
		}, false, http.StatusConflict},
		{"bad date", http.MethodGet, "/api/v1/tenants/salon/available-slots?serviceId=1&date=02.11.2026", nil, false, http.StatusBadRequest},
		{"missing service", http.MethodGet, "/api/v1/tenants/salon/available-slots?date=2026-11-02", nil, false, http.StatusBadRequest},
		{"bad time", http.MethodPost, "/api/v1/tenants/salon/bookings", map[string]interface{}{
			"serviceId": s.service.ID, "date": "2026-11-02", "startTime": "25:00", "customerName": "A", "customerPhone": "1",
		}, false, http.StatusBadRequest},
		{"owner route without auth", http.MethodGet, "/api/v1/tenants/salon/bookings", nil, false, http.StatusUnauthorized},
		{"unknown booking", http.MethodGet, "/api/v1/tenants/salon/bookings/999", nil, true, http.StatusNotFound},
		{"bad status filter", http.MethodGet, "/api/v1/tenants/salon/bookings?status=lost", nil, true, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body, tt.owner)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[handlers.ErrorResponse](t, rec).Kind)
		})
	}
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil, false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestPublicRoutesAreRateLimited(t *testing.T) {
	s := newTestServer(t, middleware.NewRateLimiter(0.001, 1, logger.NewNop()))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, s.slotsPath(), nil, false).Code)

	rec := s.do(t, http.MethodGet, s.slotsPath(), nil, false)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// маршруты владельца не ограничиваются
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/tenants/salon/hours", nil, true).Code)
}
