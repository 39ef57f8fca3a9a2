package domain

import "time"

// ClosedDate overrides weekly hours: the tenant is closed on Date.
type ClosedDate struct {
	ID        int64
	TenantID  int64
	Date      time.Time // calendar date, time part is ignored
	Reason    *string
	CreatedAt time.Time
}

// SameDate compares calendar dates ignoring time and location.
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
