package complete_booking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const msgInvalidBookingID = "некорректный ID бронирования"

type Handler struct {
	service CompleteBookingService
	logger  Logger
}

func NewHandler(service CompleteBookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/tenants/{tenantSlug}/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantSlug := mux.Vars(r)["tenantSlug"]
	userID, _ := middleware.GetUserID(r.Context())

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /tenants/{slug}/bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.service.Complete(r.Context(), tenantSlug, bookingID)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("PATCH /tenants/{slug}/bookings/{id}/complete - Failed: tenant=%s, booking_id=%d, error=%v",
				tenantSlug, bookingID, err)
		} else {
			h.logger.Warn("PATCH /tenants/{slug}/bookings/{id}/complete - Rejected: tenant=%s, booking_id=%d, user_id=%d, error=%v",
				tenantSlug, bookingID, userID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /tenants/{slug}/bookings/{id}/complete - Booking completed successfully: booking_id=%d, tenant=%s, user_id=%d, status=%s",
		bookingID, tenantSlug, userID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewReservationResponse(result))
}
