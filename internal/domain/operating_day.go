package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// OperatingDay is the weekly hours record for one (tenant, weekday) pair.
type OperatingDay struct {
	ID         int64
	TenantID   int64
	Weekday    time.Weekday
	IsOpen     bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	BreakStart types.TimeString
	BreakEnd   types.TimeString
}

// HasBreak reports whether a break window is configured.
func (d *OperatingDay) HasBreak() bool {
	return !d.BreakStart.IsZero() && !d.BreakEnd.IsZero()
}

// Normalize clears every time field on a closed day.
func (d *OperatingDay) Normalize() {
	if d.IsOpen {
		return
	}
	d.OpenTime = types.TimeString{}
	d.CloseTime = types.TimeString{}
	d.BreakStart = types.TimeString{}
	d.BreakEnd = types.TimeString{}
}

// Validate checks the record invariants. Violations wrap ErrInvalidConfiguration.
func (d *OperatingDay) Validate() error {
	if d.Weekday < time.Sunday || d.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday %d out of range", ErrInvalidConfiguration, d.Weekday)
	}

	if !d.IsOpen {
		if !d.OpenTime.IsZero() || !d.CloseTime.IsZero() || !d.BreakStart.IsZero() || !d.BreakEnd.IsZero() {
			return fmt.Errorf("%w: closed day must not carry times", ErrInvalidConfiguration)
		}
		return nil
	}

	if d.OpenTime.IsZero() || d.CloseTime.IsZero() {
		return fmt.Errorf("%w: open day requires open and close times", ErrInvalidConfiguration)
	}
	if !d.OpenTime.IsBefore(d.CloseTime) {
		return fmt.Errorf("%w: open time %s must be before close time %s", ErrInvalidConfiguration, d.OpenTime, d.CloseTime)
	}

	if d.BreakStart.IsZero() != d.BreakEnd.IsZero() {
		return fmt.Errorf("%w: break start and end must be set together", ErrInvalidConfiguration)
	}
	if d.HasBreak() {
		if !d.BreakStart.IsBefore(d.BreakEnd) {
			return fmt.Errorf("%w: break start %s must be before break end %s", ErrInvalidConfiguration, d.BreakStart, d.BreakEnd)
		}
		if d.BreakStart.IsBefore(d.OpenTime) || d.BreakEnd.IsAfter(d.CloseTime) {
			return fmt.Errorf("%w: break %s-%s must lie within %s-%s",
				ErrInvalidConfiguration, d.BreakStart, d.BreakEnd, d.OpenTime, d.CloseTime)
		}
	}

	return nil
}

// WindowSource tells whether day hours came from a stored record or from the fallback.
type WindowSource string

const (
	SourceConfigured WindowSource = "configured"
	SourceFallback   WindowSource = "fallback"
)

// DayWindow is the open interval of a single calendar date.
type DayWindow struct {
	Open       types.TimeString
	Close      types.TimeString
	BreakStart types.TimeString
	BreakEnd   types.TimeString
	Source     WindowSource
}

// HasBreak reports whether the window has a break.
func (w DayWindow) HasBreak() bool {
	return !w.BreakStart.IsZero() && !w.BreakEnd.IsZero()
}

// InBreak reports whether t falls in [BreakStart, BreakEnd).
func (w DayWindow) InBreak(t types.TimeString) bool {
	return w.HasBreak() && !t.IsBefore(w.BreakStart) && t.IsBefore(w.BreakEnd)
}

// WindowFromDay converts a stored record into a window.
func WindowFromDay(d *OperatingDay) DayWindow {
	return DayWindow{
		Open:       d.OpenTime,
		Close:      d.CloseTime,
		BreakStart: d.BreakStart,
		BreakEnd:   d.BreakEnd,
		Source:     SourceConfigured,
	}
}
