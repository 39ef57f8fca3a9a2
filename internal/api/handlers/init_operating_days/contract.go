package init_operating_days

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type OperatingDaysService interface {
	InitializeDefaultHours(ctx context.Context, tenantSlug string) ([]*domain.OperatingDay, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
