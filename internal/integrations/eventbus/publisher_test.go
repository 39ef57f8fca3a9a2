package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w, nil, logger.NewNop())
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)
	res := &domain.Reservation{ID: 5, TenantID: 9, ServiceID: 3, StartTime: start, EndTime: start.Add(time.Hour), Status: domain.StatusConfirmed}

	p.Publish(context.Background(), NewEvent(EventBookingCreated, res, start))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "9", string(w.msgs[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, EventBookingCreated, got.Type)
	assert.Equal(t, int64(5), got.ReservationID)
	assert.NotEmpty(t, got.ID)
}

func TestPublisher_WriteErrorIsSwallowed(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	p := NewPublisher(w, nil, logger.NewNop())

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), Event{Type: EventBookingCancelled})
	})
}
