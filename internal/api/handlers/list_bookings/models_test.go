package list_bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest("salon", "2026-11-02", "", "cancelled", "true")
	require.NoError(t, err)
	assert.Equal(t, "salon", req.TenantSlug)
	require.NotNil(t, req.Date)
	assert.Equal(t, "2026-11-02", req.Date.Format("2006-01-02"))
	require.NotNil(t, req.Status)
	assert.Equal(t, "cancelled", *req.Status)
	assert.True(t, req.IncludeCancelled)
	assert.False(t, req.Today)

	req, err = ToServiceRequest("salon", "", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, req.Date)
	assert.Nil(t, req.Status)
}

func TestToServiceRequest_Invalid(t *testing.T) {
	tests := []struct {
		name, date, today, includeCancelled string
	}{
		{name: "bad date", date: "02.11.2026"},
		{name: "bad today", today: "yes please"},
		{name: "date with today", date: "2026-11-02", today: "true"},
		{name: "bad includeCancelled", includeCancelled: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToServiceRequest("salon", tt.date, tt.today, "", tt.includeCancelled)
			assert.Error(t, err)
		})
	}
}
