package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/quakewatch/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.FeedResults.WithLabelValues("seismic_nearby", "success").Inc()
	m.StaleDiscarded.WithLabelValues("alerts").Add(2)
	m.LiveCharts.Set(1)

	assert.InDelta(t, 1, testutil.ToFloat64(m.FeedResults.WithLabelValues("seismic_nearby", "success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.StaleDiscarded.WithLabelValues("alerts")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LiveCharts), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Panics(t, func() { metrics.NewMetrics(reg) }, "registering twice on one registry must fail")
}
