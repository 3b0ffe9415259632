package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/profilesearch/internal/domain/outcome"
	"github.com/kailas-cloud/profilesearch/internal/domain/query"
)

// Search and store Prometheus metrics.
var (
	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profilesearch",
			Name:      "search_outcomes_total",
			Help:      "Operations by classified outcome",
		},
		[]string{"operation", "outcome"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "profilesearch",
			Name:      "search_duration_seconds",
			Help:      "End-to-end operation duration (validation, compilation and store)",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	SearchResultsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "profilesearch",
			Name:      "search_results_returned",
			Help:      "Number of profiles returned per operation",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"operation"},
	)

	StoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "profilesearch",
			Name:      "store_duration_seconds",
			Help:      "Record store call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profilesearch",
			Name:      "store_errors_total",
			Help:      "Record store failures",
		},
		[]string{"operation", "error_type"}, // "timeout" / "unavailable"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchOutcomesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultsReturned)
	prometheus.MustRegister(StoreDuration)
	prometheus.MustRegister(StoreErrorsTotal)
	searchMetricsRegistered = true
}

// SearchObserver records operation outcomes as Prometheus metrics.
type SearchObserver struct{}

// NewSearchObserver creates a metrics observer.
func NewSearchObserver() *SearchObserver {
	return &SearchObserver{}
}

// Before is a no-op: nothing is recorded until the outcome is known.
func (o *SearchObserver) Before(_ context.Context, _ string, _ query.Params) {}

// After records outcome count, duration and result size.
func (o *SearchObserver) After(_ context.Context, ev outcome.Event) {
	SearchOutcomesTotal.WithLabelValues(ev.Op, string(ev.Kind)).Inc()
	SearchDuration.WithLabelValues(ev.Op).Observe(ev.Duration.Seconds())
	if ev.Kind == outcome.Found || ev.Kind == outcome.NotFound {
		SearchResultsReturned.WithLabelValues(ev.Op).Observe(float64(ev.Records))
	}
}
