package reservations

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrTenantNotFound возвращается, когда бизнес не найден
	ErrTenantNotFound = fmt.Errorf("%w: tenant not found", domain.ErrResourceNotFound)

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("%w: reservation not found", domain.ErrResourceNotFound)

	// ErrInvalidTransition возвращается при смене статуса не из CONFIRMED
	ErrInvalidTransition = fmt.Errorf("%w: reservation is not confirmed", domain.ErrBookingConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: reservations", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations.service: internal error")
)
