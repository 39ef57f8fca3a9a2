package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantSlug == "" {
		return fmt.Errorf("%w: tenant slug is required", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxCustomerName {
		return fmt.Errorf("%w: customer name must be 1-%d characters", ErrInvalidInput, domain.MaxCustomerName)
	}

	phone := strings.TrimSpace(req.CustomerPhone)
	if phone == "" || utf8.RuneCountInString(phone) > domain.MaxCustomerPhone {
		return fmt.Errorf("%w: customer phone must be 1-%d characters", ErrInvalidInput, domain.MaxCustomerPhone)
	}

	return nil
}

// validateAgainstWindow применяет к бронированию те же правила, что и генератор слотов
func validateAgainstWindow(window domain.DayWindow, day, start, end time.Time) error {
	open := window.Open.OnDate(day)
	closeAt := window.Close.OnDate(day)
	if start.Before(open) || end.After(closeAt) {
		return fmt.Errorf("%w: %s-%s is outside %s-%s", ErrOutsideOperatingHours,
			start.Format(domain.TimeFormat), end.Format(domain.TimeFormat), window.Open, window.Close)
	}

	if window.HasBreak() {
		breakStart := window.BreakStart.OnDate(day)
		breakEnd := window.BreakEnd.OnDate(day)
		if !start.Before(breakStart) && start.Before(breakEnd) {
			return fmt.Errorf("%w: break %s-%s", ErrSlotInBreak, window.BreakStart, window.BreakEnd)
		}
	}

	return nil
}
