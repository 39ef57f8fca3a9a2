package list_closed_dates

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type ClosedDatesService interface {
	ListClosedDates(ctx context.Context, tenantSlug string) ([]*domain.ClosedDate, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
