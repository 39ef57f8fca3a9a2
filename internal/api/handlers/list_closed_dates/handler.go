package list_closed_dates

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

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

// Handle GET /api/v1/tenants/{tenantSlug}/closed-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantSlug := mux.Vars(r)["tenantSlug"]

	result, err := h.service.ListClosedDates(r.Context(), tenantSlug)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("GET /tenants/{slug}/closed-dates - Failed: tenant=%s, error=%v", tenantSlug, err)
		} else {
			h.logger.Warn("GET /tenants/{slug}/closed-dates - Rejected: tenant=%s, error=%v", tenantSlug, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /tenants/{slug}/closed-dates - Closed dates retrieved successfully: tenant=%s, count=%d", tenantSlug, len(result))
	handlers.RespondJSON(w, http.StatusOK, handlers.NewClosedDatesResponse(result))
}
