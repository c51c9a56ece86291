package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager("workout_stats", "api", reg)

	m.CounterRequests.WithLabelValues("stats", "200").Inc()
	m.CounterUploads.WithLabelValues("ok").Inc()
	m.HistProcessingDuration.Observe(0.01)
	m.GaugeCacheEntries.Set(8)

	n, err := testutil.GatherAndCount(reg,
		"workout_stats_api_requests_total",
		"workout_stats_api_uploads_total",
		"workout_stats_api_processing_duration_seconds",
		"workout_stats_api_session_cache_entries",
	)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestNewTestManager_Isolated(t *testing.T) {
	a, b := NewTestManager(), NewTestManager()
	a.CounterWorkouts.Add(5)
	assert.Equal(t, 5.0, testutil.ToFloat64(a.CounterWorkouts))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CounterWorkouts))
}
