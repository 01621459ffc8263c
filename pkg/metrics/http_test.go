package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewHTTPMetrics_NilRegisterer(t *testing.T) {
	m := NewHTTPMetrics(nil)
	// must not panic when unregistered
	m.ObserveRequest("GET", "/api/products", "200", time.Millisecond)
}

func TestObserveRequest_CountsByLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/products", "200", 5*time.Millisecond)
	m.ObserveRequest("GET", "/api/products", "200", 7*time.Millisecond)
	m.ObserveRequest("POST", "/api/orders", "409", time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/products", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/orders", "409")))
}

func TestObserveRequest_EmptyLabelsNormalized(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("", "", "", time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("unknown", "unknown", "unknown")))
}
