package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewUpstreamMetrics(registry)
	require.NoError(t, err)

	m.ObserveRequest("list_loans", "success", 20*time.Millisecond)
	m.ObserveRequest("list_loans", "success", 30*time.Millisecond)
	m.ObserveRequest("create_loan", "api_error", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("list_loans", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("create_loan", "api_error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))

	_, err = NewUpstreamMetrics(registry)
	assert.Error(t, err, "registering twice on the same registry fails")
}
