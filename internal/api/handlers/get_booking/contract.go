package get_booking

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type GetBookingService interface {
	Get(ctx context.Context, tenantSlug string, id int64) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
