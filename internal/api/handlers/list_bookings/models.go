package list_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations/models"
)

// ToServiceRequest создает запрос к сервису из query параметров
func ToServiceRequest(tenantSlug, dateStr, todayStr, statusStr, includeCancelledStr string) (*models.ListRequest, error) {
	req := &models.ListRequest{TenantSlug: tenantSlug}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.Date = &date
	}

	if todayStr != "" {
		today, err := strconv.ParseBool(todayStr)
		if err != nil {
			return nil, fmt.Errorf("invalid today: %w", err)
		}
		req.Today = today
	}

	if req.Today && req.Date != nil {
		return nil, fmt.Errorf("date and today are mutually exclusive")
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
