package domain

import "time"

// Slot is a candidate appointment interval on the stepping grid.
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
	Available bool
}
