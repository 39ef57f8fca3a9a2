package calendar

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrTenantNotFound возвращается, когда бизнес не найден
	ErrTenantNotFound = fmt.Errorf("%w: tenant not found", domain.ErrResourceNotFound)

	// ErrClosedDateNotFound возвращается, когда нерабочая дата не найдена
	ErrClosedDateNotFound = fmt.Errorf("%w: closed date not found", domain.ErrResourceNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: calendar", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar.service: internal error")
)
