package update_operating_day

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// UpdateOperatingDayRequest HTTP request model; время в формате HH:MM
type UpdateOperatingDayRequest struct {
	IsOpen     bool    `json:"isOpen"`
	OpenTime   *string `json:"openTime"`
	CloseTime  *string `json:"closeTime"`
	BreakStart *string `json:"breakStart"`
	BreakEnd   *string `json:"breakEnd"`
}

// ParseWeekday принимает номер дня (0 - воскресенье) или английское название
func ParseWeekday(s string) (time.Weekday, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(time.Sunday) || n > int(time.Saturday) {
			return 0, fmt.Errorf("weekday %d out of range 0-6", n)
		}
		return time.Weekday(n), nil
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), s) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ToServiceInput конвертирует HTTP запрос во входные данные сервиса
func (r *UpdateOperatingDayRequest) ToServiceInput(weekday time.Weekday) (models.OperatingDayInput, error) {
	in := models.OperatingDayInput{Weekday: weekday, IsOpen: r.IsOpen}

	fields := []struct {
		name string
		src  *string
		dst  *types.TimeString
	}{
		{"openTime", r.OpenTime, &in.OpenTime},
		{"closeTime", r.CloseTime, &in.CloseTime},
		{"breakStart", r.BreakStart, &in.BreakStart},
		{"breakEnd", r.BreakEnd, &in.BreakEnd},
	}
	for _, f := range fields {
		if f.src == nil || *f.src == "" {
			continue
		}
		ts, err := types.NewTimeStringFromString(*f.src)
		if err != nil {
			return models.OperatingDayInput{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = ts
	}

	return in, nil
}
