package eventbus

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
)

// Event полезная нагрузка сообщения (JSON)
type Event struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	TenantID      int64     `json:"tenantId"`
	ReservationID int64     `json:"reservationId"`
	ServiceID     int64     `json:"serviceId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewEvent строит событие по бронированию
func NewEvent(eventType EventType, r *domain.Reservation, now time.Time) Event {
	return Event{
		Type:          eventType,
		TenantID:      r.TenantID,
		ReservationID: r.ID,
		ServiceID:     r.ServiceID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
		OccurredAt:    now,
	}
}
