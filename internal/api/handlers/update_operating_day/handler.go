package update_operating_day

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWeekday     = "некорректный день недели, ожидается 0-6 или название"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
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

// Handle PUT /api/v1/tenants/{tenantSlug}/hours/{weekday}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantSlug := vars["tenantSlug"]
	userID, _ := middleware.GetUserID(r.Context())

	weekday, err := ParseWeekday(vars["weekday"])
	if err != nil {
		h.logger.Warn("PUT /tenants/{slug}/hours/{weekday} - Invalid weekday: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	var req UpdateOperatingDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tenants/{slug}/hours/{weekday} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	input, err := req.ToServiceInput(weekday)
	if err != nil {
		h.logger.Warn("PUT /tenants/{slug}/hours/{weekday} - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.SetOperatingDay(r.Context(), tenantSlug, input)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("PUT /tenants/{slug}/hours/{weekday} - Failed: tenant=%s, weekday=%s, error=%v",
				tenantSlug, weekday, err)
		} else {
			h.logger.Warn("PUT /tenants/{slug}/hours/{weekday} - Rejected: tenant=%s, weekday=%s, error=%v",
				tenantSlug, weekday, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PUT /tenants/{slug}/hours/{weekday} - Operating day updated: tenant=%s, weekday=%s, user_id=%d",
		tenantSlug, weekday, userID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewOperatingDayResponse(result))
}
