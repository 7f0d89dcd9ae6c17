package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
)

func TestRedisPublisher_FailureIsCountedNotReturned(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	p := NewRedisPublisher(Options{
		Addr:    "127.0.0.1:1",
		Channel: "events",
		Timeout: 200 * time.Millisecond,
	}, logger.NewNop(), m)

	ctx, cancel := context.WithCancel(context.Background())
	p.Publish(ctx, domain.BookingEvent{
		Type:      domain.EventBookingCreated,
		BookingID: 1,
		UUID:      uuid.New(),
	})
	cancel()

	require.NoError(t, p.Close())
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.EventPublishFailuresTotal.WithLabelValues(string(domain.EventBookingCreated)),
	))
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	p.Publish(context.Background(), domain.BookingEvent{})
	assert.NoError(t, p.Close())
}
