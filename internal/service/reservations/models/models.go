package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ErrInvalidStatus возвращается при некорректном статусе
var ErrInvalidStatus = errors.New("invalid reservation status")

// ListRequest запрос списка бронирований бизнеса
type ListRequest struct {
	TenantSlug       string
	Date             *time.Time // календарная дата в часовом поясе бизнеса; nil - без ограничения
	Today            bool       // подставить сегодняшнюю дату бизнеса
	Status           *string
	IncludeCancelled bool
}

// ToDomainStatus парсит статус без учета регистра
func ToDomainStatus(s string) (domain.ReservationStatus, error) {
	status := domain.ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
