package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func ts(s string) types.TimeString {
	return types.MustTimeString(s)
}

func TestOperatingDay_Validate(t *testing.T) {
	tests := []struct {
		name    string
		day     OperatingDay
		wantErr bool
	}{
		{
			name: "open with break",
			day:  OperatingDay{Weekday: time.Monday, IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("18:00"), BreakStart: ts("12:00"), BreakEnd: ts("13:00")},
		},
		{
			name: "closed without times",
			day:  OperatingDay{Weekday: time.Sunday},
		},
		{
			name:    "open without times",
			day:     OperatingDay{Weekday: time.Monday, IsOpen: true},
			wantErr: true,
		},
		{
			name:    "open after close",
			day:     OperatingDay{Weekday: time.Monday, IsOpen: true, OpenTime: ts("18:00"), CloseTime: ts("09:00")},
			wantErr: true,
		},
		{
			name:    "half break",
			day:     OperatingDay{Weekday: time.Monday, IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("18:00"), BreakStart: ts("12:00")},
			wantErr: true,
		},
		{
			name:    "break outside hours",
			day:     OperatingDay{Weekday: time.Monday, IsOpen: true, OpenTime: ts("09:00"), CloseTime: ts("18:00"), BreakStart: ts("17:30"), BreakEnd: ts("18:30")},
			wantErr: true,
		},
		{
			name:    "closed with times",
			day:     OperatingDay{Weekday: time.Saturday, OpenTime: ts("09:00"), CloseTime: ts("18:00")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.day.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOperatingDay_NormalizeClosedDay(t *testing.T) {
	day := OperatingDay{Weekday: time.Saturday, OpenTime: ts("09:00"), CloseTime: ts("18:00"), BreakStart: ts("12:00"), BreakEnd: ts("13:00")}

	day.Normalize()

	assert.NoError(t, day.Validate())
	assert.True(t, day.OpenTime.IsZero())
	assert.False(t, day.HasBreak())
}

func TestDayWindow_InBreak(t *testing.T) {
	w := DayWindow{Open: ts("09:00"), Close: ts("18:00"), BreakStart: ts("12:00"), BreakEnd: ts("13:00")}

	assert.False(t, w.InBreak(ts("11:30")))
	assert.True(t, w.InBreak(ts("12:00")))
	assert.True(t, w.InBreak(ts("12:30")))
	assert.False(t, w.InBreak(ts("13:00")))
}
