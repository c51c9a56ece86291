package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	CounterRequests          *prometheus.CounterVec
	CounterUploads           *prometheus.CounterVec
	CounterWorkouts          prometheus.Counter
	CounterDimensionFailures prometheus.Counter

	GaugeCacheEntries prometheus.Gauge

	HistProcessingDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("workout_stats", "test", prometheus.NewRegistry())
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"handler", "status"}),
		CounterUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "uploads_total",
			Help:      "The total number of processed exports by outcome",
		}, []string{"outcome"}),
		CounterWorkouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workouts_processed_total",
			Help:      "The total number of workouts normalized",
		}),
		CounterDimensionFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dimension_failures_total",
			Help:      "The total number of report dimensions that failed to aggregate",
		}),
		GaugeCacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "session_cache_entries",
			Help:      "The number of session cache entries: headers, table shapes and row chunks",
		}),
		HistProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "processing_duration_seconds",
			Help:      "Time to load, normalize and aggregate one export",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
}
