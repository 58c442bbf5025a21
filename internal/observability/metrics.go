package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// LISST processing run.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec // labels: outcome={success,error}
	RunInProgress prometheus.Gauge
	StageDuration *prometheus.HistogramVec // labels: stage
	WarningsTotal prometheus.Counter

	// Image service metrics.
	ServiceRequests        *prometheus.CounterVec   // labels: endpoint, outcome={success,error}
	ServiceRequestDuration *prometheus.HistogramVec // labels: endpoint
	SamplesFetched         prometheus.Counter

	// Output metrics.
	FeaturesWritten prometheus.Counter
}

// NewMetrics creates and registers all run metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunInProgress,
		m.StageDuration,
		m.WarningsTotal,
		m.ServiceRequests,
		m.ServiceRequestDuration,
		m.SamplesFetched,
		m.FeaturesWritten,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ga_lisst",
			Name:      "runs_total",
			Help:      "Completed runs by outcome.",
		}, []string{"outcome"}),
		RunInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ga_lisst",
			Name:      "run_in_progress",
			Help:      "1 while a run is executing, 0 otherwise.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ga_lisst",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"stage"}),
		WarningsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ga_lisst",
			Name:      "warnings_total",
			Help:      "Non-fatal deviations reported to the user.",
		}),
		ServiceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ga_lisst",
			Name:      "service_requests_total",
			Help:      "Image service REST requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		ServiceRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ga_lisst",
			Name:      "service_request_duration_seconds",
			Help:      "Image service REST request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		SamplesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ga_lisst",
			Name:      "samples_fetched_total",
			Help:      "Raw pixel samples fetched from the image service.",
		}),
		FeaturesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ga_lisst",
			Name:      "features_written_total",
			Help:      "Output features written across all runs.",
		}),
	}
}
