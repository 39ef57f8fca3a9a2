package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps_HalfOpen(t *testing.T) {
	base := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	r := Reservation{StartTime: base, EndTime: base.Add(time.Hour)}

	assert.True(t, r.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.True(t, r.Overlaps(base.Add(-30*time.Minute), base.Add(time.Minute)))
	assert.False(t, r.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)), "adjacent after")
	assert.False(t, r.Overlaps(base.Add(-time.Hour), base), "adjacent before")
}

func TestReservationStatus_Transitions(t *testing.T) {
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	assert.False(t, ReservationStatus("pending").IsValid())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("%w: cannot book in the past", ErrBookingConflict)

	assert.Equal(t, KindBookingConflict, KindOf(fmt.Errorf("outer: %w", wrapped)))
	assert.Equal(t, KindResourceNotFound, KindOf(ErrResourceNotFound))
	assert.Equal(t, KindInternal, KindOf(errors.New("db down")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
