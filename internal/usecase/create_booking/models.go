package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantSlug    string           // slug бизнеса
	ServiceID     int64            // ID услуги
	Date          time.Time        // календарная дата (время и пояс игнорируются)
	StartTime     types.TimeString // время начала по часам бизнеса, например "10:00"
	CustomerName  string           // имя клиента
	CustomerPhone string           // телефон клиента
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	TenantID        int64
	ServiceID       int64
	StartTime       time.Time // в часовом поясе бизнеса
	EndTime         time.Time
	DurationMinutes int
	CustomerName    string
	CustomerPhone   string
	Status          string
	ServiceName     string
	ServicePrice    float64
	CreatedAt       time.Time
}
