package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrTenantNotFound возвращается, когда бизнес не найден
	ErrTenantNotFound = fmt.Errorf("%w: get_available_slots: tenant not found", domain.ErrResourceNotFound)

	// ErrTenantInactive возвращается, когда бизнес не принимает бронирования
	ErrTenantInactive = fmt.Errorf("%w: get_available_slots", domain.ErrTenantInactive)

	// ErrServiceNotFound возвращается, когда услуга не найдена, чужая или неактивна
	ErrServiceNotFound = fmt.Errorf("%w: get_available_slots: service not found", domain.ErrResourceNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: get_available_slots", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
