package update_operating_day

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

type OperatingDaysService interface {
	SetOperatingDay(ctx context.Context, tenantSlug string, in models.OperatingDayInput) (*domain.OperatingDay, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
