package delete_closed_date

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const msgInvalidClosedDateID = "некорректный ID нерабочей даты"

type Handler struct {
	service ClosedDatesService
	logger  Logger
}

func NewHandler(service ClosedDatesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/tenants/{tenantSlug}/closed-dates/{closedDateId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantSlug := mux.Vars(r)["tenantSlug"]
	userID, _ := middleware.GetUserID(r.Context())

	id, err := handlers.PathInt64(r, "closedDateId")
	if err != nil {
		h.logger.Warn("DELETE /tenants/{slug}/closed-dates/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClosedDateID)
		return
	}

	if err := h.service.DeleteClosedDate(r.Context(), tenantSlug, id); err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("DELETE /tenants/{slug}/closed-dates/{id} - Failed: tenant=%s, id=%d, error=%v", tenantSlug, id, err)
		} else {
			h.logger.Warn("DELETE /tenants/{slug}/closed-dates/{id} - Rejected: tenant=%s, id=%d, error=%v", tenantSlug, id, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("DELETE /tenants/{slug}/closed-dates/{id} - Closed date removed: tenant=%s, id=%d, user_id=%d",
		tenantSlug, id, userID)
	w.WriteHeader(http.StatusNoContent)
}
