package rstream

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus instrumentation for stream polling. One
// collector may be shared by any number of streams; series are partitioned
// by the stream name. Safe for concurrent use.
type Metrics struct {
	pollsTotal       *prometheus.CounterVec
	itemsTotal       *prometheus.CounterVec
	duplicatesTotal  *prometheus.CounterVec
	fetchErrorsTotal *prometheus.CounterVec
	idleSleepSeconds *prometheus.HistogramVec
}

// NewMetrics creates a collector registered on the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a collector using the supplied registerer.
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	return &Metrics{
		pollsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reddit_stream_polls_total",
				Help: "Total number of successful listing polls",
			},
			[]string{"stream"},
		),
		itemsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reddit_stream_items_total",
				Help: "Total number of new items delivered",
			},
			[]string{"stream"},
		),
		duplicatesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reddit_stream_duplicates_skipped_total",
				Help: "Total number of fetched items skipped as already delivered",
			},
			[]string{"stream"},
		),
		fetchErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "reddit_stream_fetch_errors_total",
				Help: "Total number of failed listing polls",
			},
			[]string{"stream"},
		),
		idleSleepSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reddit_stream_idle_sleep_seconds",
				Help:    "Backoff sleeps taken between polls that returned nothing new",
				Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"stream"},
		),
	}
}

func (m *Metrics) observePoll(stream string, items, duplicates int) {
	m.pollsTotal.WithLabelValues(stream).Inc()
	m.itemsTotal.WithLabelValues(stream).Add(float64(items))
	m.duplicatesTotal.WithLabelValues(stream).Add(float64(duplicates))
}

func (m *Metrics) observeFetchError(stream string) {
	m.fetchErrorsTotal.WithLabelValues(stream).Inc()
}

func (m *Metrics) observeIdleSleep(stream string, d time.Duration) {
	m.idleSleepSeconds.WithLabelValues(stream).Observe(d.Seconds())
}
