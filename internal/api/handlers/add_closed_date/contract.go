package add_closed_date

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

type ClosedDatesService interface {
	AddClosedDate(ctx context.Context, tenantSlug string, in models.ClosedDateInput) (*domain.ClosedDate, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
