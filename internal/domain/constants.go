package domain

// Slot grid and fallback hours
const (
	SlotStepMinutes     = 30
	DefaultOpenTime     = "09:00"
	DefaultCloseTime    = "18:00"
	DefaultTimezone     = "UTC"
	MinServiceDuration  = 5
	MaxServiceDuration  = 24 * 60
	MaxClosedDateReason = 200
	MaxCustomerName     = 100
	MaxCustomerPhone    = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
