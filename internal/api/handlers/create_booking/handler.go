package create_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantSlug}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantSlug := mux.Vars(r)["tenantSlug"]

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{slug}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(tenantSlug)
	if err != nil {
		h.logger.Warn("POST /tenants/{slug}/bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("POST /tenants/{slug}/bookings - Failed to create booking: tenant=%s, service_id=%d, error=%v",
				tenantSlug, req.ServiceID, err)
		} else {
			h.logger.Warn("POST /tenants/{slug}/bookings - Rejected: tenant=%s, service_id=%d, error=%v",
				tenantSlug, req.ServiceID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /tenants/{slug}/bookings - Booking created successfully: booking_id=%d, tenant=%s",
		result.ID, tenantSlug)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
