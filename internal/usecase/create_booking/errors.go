package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrTenantNotFound возвращается, когда бизнес не найден
	ErrTenantNotFound = fmt.Errorf("%w: create_booking: tenant not found", domain.ErrResourceNotFound)

	// ErrTenantInactive возвращается, когда бизнес не принимает бронирования
	ErrTenantInactive = fmt.Errorf("%w: create_booking", domain.ErrTenantInactive)

	// ErrServiceNotFound возвращается, когда услуга не найдена, чужая или неактивна
	ErrServiceNotFound = fmt.Errorf("%w: create_booking: service not found", domain.ErrResourceNotFound)

	// ErrBookingInPast возвращается, когда время начала не позже текущего момента
	ErrBookingInPast = fmt.Errorf("%w: cannot book in the past", domain.ErrBookingConflict)

	// ErrSlotTaken возвращается, когда интервал пересекается с существующим бронированием
	ErrSlotTaken = fmt.Errorf("%w: time slot is already booked", domain.ErrBookingConflict)

	// ErrBusinessClosed возвращается, когда бизнес закрыт в дату бронирования (проверка календаря включена)
	ErrBusinessClosed = fmt.Errorf("%w: business is closed on this date", domain.ErrBookingConflict)

	// ErrOutsideOperatingHours возвращается, когда слот выходит за часы работы (проверка календаря включена)
	ErrOutsideOperatingHours = fmt.Errorf("%w: outside operating hours", domain.ErrBookingConflict)

	// ErrSlotInBreak возвращается, когда слот начинается в перерыв (проверка календаря включена)
	ErrSlotInBreak = fmt.Errorf("%w: slot starts during a break", domain.ErrBookingConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_booking", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
