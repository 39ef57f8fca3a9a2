package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// IsValid reports whether s is a known status.
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo implements CONFIRMED -> {CANCELLED, COMPLETED}.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	return s == StatusConfirmed && next.IsTerminal()
}

// Reservation is a customer appointment. EndTime is always StartTime plus
// the service duration at booking time.
type Reservation struct {
	ID            int64
	TenantID      int64
	ServiceID     int64
	StartTime     time.Time
	EndTime       time.Time
	CustomerName  string
	CustomerPhone string
	Status        ReservationStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HoldsTime reports whether the reservation still occupies its interval.
// Completed reservations keep their interval for history and overlap checks.
func (r *Reservation) HoldsTime() bool {
	return r.Status != StatusCancelled
}

// Overlaps reports whether [start, end) intersects the reservation interval.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return Overlaps(r.StartTime, r.EndTime, start, end)
}

// Overlaps is half-open interval intersection: [a,b) and [c,d) meet iff a<d and c<b.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ReservationsFilter selects reservations of one tenant.
type ReservationsFilter struct {
	TenantID         int64
	From             *time.Time // inclusive lower bound on StartTime
	To               *time.Time // exclusive upper bound on StartTime
	Status           *ReservationStatus
	IncludeCancelled bool
}
