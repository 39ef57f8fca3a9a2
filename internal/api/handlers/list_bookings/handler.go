package list_bookings

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const msgInvalidParams = "некорректные параметры запроса"

type Handler struct {
	service ListBookingsService
	logger  Logger
}

func NewHandler(service ListBookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantSlug}/bookings
// Query params: date, today, status, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantSlug := mux.Vars(r)["tenantSlug"]
	userID, _ := middleware.GetUserID(r.Context())

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		tenantSlug,
		query.Get("date"),
		query.Get("today"),
		query.Get("status"),
		query.Get("includeCancelled"),
	)
	if err != nil {
		h.logger.Warn("GET /tenants/{slug}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("GET /tenants/{slug}/bookings - Failed to get bookings: tenant=%s, error=%v", tenantSlug, err)
		} else {
			h.logger.Warn("GET /tenants/{slug}/bookings - Rejected: tenant=%s, error=%v", tenantSlug, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /tenants/{slug}/bookings - Bookings retrieved successfully: tenant=%s, user_id=%d, count=%d",
		tenantSlug, userID, len(result))
	handlers.RespondJSON(w, http.StatusOK, handlers.NewReservationsResponse(result))
}
