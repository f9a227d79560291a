package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/complaints", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/complaints", "GET", 200, 20*time.Millisecond)
	m.RecordError("/complaints/:id", "PUT", "FORBIDDEN")
	m.RecordStatusChange("resolved")
	m.RecordNotification(DeliveryDelivered)
	m.RecordNotification(DeliveryDroppedNoUser)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/complaints", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/complaints/:id", "PUT", "FORBIDDEN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues(DeliveryDelivered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues(DeliveryDroppedNoUser)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordStatusChange("x")
		m.RecordNotification(DeliveryFailed)
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_StatusLabelIsBounded(t *testing.T) {
	m := NewMetrics()

	m.RecordStatusChange("in-progress")
	m.RecordStatusChange("escalated to legal")
	m.RecordStatusChange("waiting on vendor")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("in-progress")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("other")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.statusChanges))
}
