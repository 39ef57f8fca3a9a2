package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// OperatingDayInput новые часы работы на день недели
type OperatingDayInput struct {
	Weekday    time.Weekday
	IsOpen     bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	BreakStart types.TimeString
	BreakEnd   types.TimeString
}

// ToDomain собирает запись тенанта из входных данных
func (in OperatingDayInput) ToDomain(tenantID int64) *domain.OperatingDay {
	return &domain.OperatingDay{
		TenantID:   tenantID,
		Weekday:    in.Weekday,
		IsOpen:     in.IsOpen,
		OpenTime:   in.OpenTime,
		CloseTime:  in.CloseTime,
		BreakStart: in.BreakStart,
		BreakEnd:   in.BreakEnd,
	}
}

// ClosedDateInput нерабочая дата
type ClosedDateInput struct {
	Date   time.Time
	Reason *string
}
