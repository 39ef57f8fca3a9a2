package domain

import "errors"

// Stable error kinds. Use-case and service sentinels wrap exactly one of these,
// so callers can classify any error with errors.Is or KindOf.
var (
	ErrResourceNotFound     = errors.New("resource not found")
	ErrTenantInactive       = errors.New("tenant is not accepting bookings")
	ErrBookingConflict      = errors.New("booking conflict")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidInput         = errors.New("invalid input")
)

// Kind is the machine-readable error classification exposed to API clients.
type Kind string

const (
	KindResourceNotFound     Kind = "RESOURCE_NOT_FOUND"
	KindTenantInactive       Kind = "TENANT_INACTIVE"
	KindBookingConflict      Kind = "BOOKING_CONFLICT"
	KindInvalidConfiguration Kind = "INVALID_CONFIGURATION"
	KindInvalidInput         Kind = "INVALID_INPUT"
	KindInternal             Kind = "INTERNAL"
)

// KindOf maps an error to its stable kind. Unclassified errors are INTERNAL.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrResourceNotFound):
		return KindResourceNotFound
	case errors.Is(err, ErrTenantInactive):
		return KindTenantInactive
	case errors.Is(err, ErrBookingConflict):
		return KindBookingConflict
	case errors.Is(err, ErrInvalidConfiguration):
		return KindInvalidConfiguration
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}
