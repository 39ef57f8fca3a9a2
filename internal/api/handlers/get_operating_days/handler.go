package get_operating_days

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type Handler struct {
	service OperatingDaysService
	logger  Logger
}

func NewHandler(service OperatingDaysService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantSlug}/hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantSlug := mux.Vars(r)["tenantSlug"]

	result, err := h.service.ListOperatingDays(r.Context(), tenantSlug)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("GET /tenants/{slug}/hours - Failed: tenant=%s, error=%v", tenantSlug, err)
		} else {
			h.logger.Warn("GET /tenants/{slug}/hours - Rejected: tenant=%s, error=%v", tenantSlug, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /tenants/{slug}/hours - Operating days retrieved successfully: tenant=%s, count=%d", tenantSlug, len(result))
	handlers.RespondJSON(w, http.StatusOK, handlers.NewOperatingDaysResponse(result))
}
