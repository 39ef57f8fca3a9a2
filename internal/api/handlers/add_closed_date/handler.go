package add_closed_date

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle POST /api/v1/tenants/{tenantSlug}/closed-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantSlug := mux.Vars(r)["tenantSlug"]
	userID, _ := middleware.GetUserID(r.Context())

	var req AddClosedDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{slug}/closed-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	input, err := req.ToServiceInput()
	if err != nil {
		h.logger.Warn("POST /tenants/{slug}/closed-dates - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.AddClosedDate(r.Context(), tenantSlug, input)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("POST /tenants/{slug}/closed-dates - Failed: tenant=%s, error=%v", tenantSlug, err)
		} else {
			h.logger.Warn("POST /tenants/{slug}/closed-dates - Rejected: tenant=%s, error=%v", tenantSlug, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /tenants/{slug}/closed-dates - Closed date added: tenant=%s, date=%s, user_id=%d",
		tenantSlug, req.Date, userID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewClosedDateResponse(result))
}
