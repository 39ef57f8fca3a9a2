package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	addClosedDateHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/add_closed_date"
	cancelBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	deleteClosedDateHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_closed_date"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_booking"
	getOperatingDaysHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_operating_days"
	initOperatingDaysHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/init_operating_days"
	listBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_bookings"
	listClosedDatesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_closed_dates"
	updateOperatingDayHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_operating_day"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

// Dependencies use cases и сервисы, которые обслуживает HTTP API
type Dependencies struct {
	CreateBooking     *createBookingUC.UseCase
	GetAvailableSlots *getAvailableSlotsUC.UseCase
	Reservations      *reservations.Service
	Calendar          *calendar.Service
	Logger            *logger.Logger

	// Metrics nil - метрики выключены
	Metrics     *metrics.Metrics
	MetricsPath string

	// RateLimiter nil - публичные маршруты без ограничения
	RateLimiter *middleware.RateLimiter
}

// NewRouter собирает маршруты API
func NewRouter(deps Dependencies) *mux.Router {
	log := deps.Logger

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(deps.GetAvailableSlots, log)
	createBooking := createBookingHandler.NewHandler(deps.CreateBooking, log)
	getBooking := getBookingHandler.NewHandler(deps.Reservations, log)
	listBookings := listBookingsHandler.NewHandler(deps.Reservations, log)
	cancelBooking := cancelBookingHandler.NewHandler(deps.Reservations, log)
	completeBooking := completeBookingHandler.NewHandler(deps.Reservations, log)
	getOperatingDays := getOperatingDaysHandler.NewHandler(deps.Calendar, log)
	updateOperatingDay := updateOperatingDayHandler.NewHandler(deps.Calendar, log)
	initOperatingDays := initOperatingDaysHandler.NewHandler(deps.Calendar, log)
	listClosedDates := listClosedDatesHandler.NewHandler(deps.Calendar, log)
	addClosedDate := addClosedDateHandler.NewHandler(deps.Calendar, log)
	deleteClosedDate := deleteClosedDateHandler.NewHandler(deps.Calendar, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
		r.Handle(deps.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	tenant := r.PathPrefix("/api/v1/tenants/{tenantSlug}").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := tenant.PathPrefix("").Subrouter()
	if deps.RateLimiter != nil {
		public.Use(deps.RateLimiter.Middleware)
	}

	// Доступные слоты услуги на дату
	public.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования клиентом
	public.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// OWNER ROUTES (требуют X-User-ID header)
	// ============================================================

	owner := tenant.PathPrefix("").Subrouter()
	owner.Use(middleware.Auth)

	// --- Бронирования ---
	owner.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	owner.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	owner.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	owner.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// --- Часы работы ---
	owner.HandleFunc("/hours", getOperatingDays.Handle).Methods(http.MethodGet)
	owner.HandleFunc("/hours/defaults", initOperatingDays.Handle).Methods(http.MethodPost)
	owner.HandleFunc("/hours/{weekday}", updateOperatingDay.Handle).Methods(http.MethodPut)

	// --- Нерабочие даты ---
	owner.HandleFunc("/closed-dates", listClosedDates.Handle).Methods(http.MethodGet)
	owner.HandleFunc("/closed-dates", addClosedDate.Handle).Methods(http.MethodPost)
	owner.HandleFunc("/closed-dates/{closedDateId}", deleteClosedDate.Handle).Methods(http.MethodDelete)

	return r
}
