package observe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus recorder.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "trellis").
	Namespace string

	// Subsystem is the metrics subsystem (default: "router").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for match duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus recorder.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "trellis",
		Subsystem: "router",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// MetricsRecorder records build and match telemetry as Prometheus
// metrics.
type MetricsRecorder struct {
	buildsTotal   *prometheus.CounterVec
	buildDuration prometheus.Histogram
	routes        prometheus.Gauge
	matchesTotal  *prometheus.CounterVec
	matchDuration *prometheus.HistogramVec
}

// Metrics creates a Prometheus recorder.
//
// Metrics collected:
//   - trellis_router_builds_total: Counter of rebuilds by status
//   - trellis_router_build_duration_seconds: Histogram of rebuild duration
//   - trellis_router_routes: Gauge of declarations in the published tree
//   - trellis_router_matches_total: Counter of matches by outcome
//   - trellis_router_match_duration_seconds: Histogram of match duration by outcome
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	r := router.NewRouter(router.WithRecorder(
//	    observe.Metrics(observe.WithRegistry(reg)),
//	))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func Metrics(opts ...MetricsOption) *MetricsRecorder {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &MetricsRecorder{
		buildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "builds_total",
			Help:        "Total number of route tree rebuilds by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "build_duration_seconds",
			Help:        "Route tree rebuild duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "routes",
			Help:        "Number of route declarations in the published tree",
			ConstLabels: config.ConstLabels,
		}),

		matchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "matches_total",
			Help:        "Total number of match attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		matchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "match_duration_seconds",
			Help:        "Match duration in seconds by outcome",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"outcome"}),
	}
}

// RecordBuild implements router.Recorder.
func (m *MetricsRecorder) RecordBuild(routes int, dur time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.buildsTotal.WithLabelValues(status).Inc()
	m.buildDuration.Observe(dur.Seconds())
	if err == nil {
		m.routes.Set(float64(routes))
	}
}

// RecordMatch implements router.Recorder. The route pattern is not used
// as a label to keep cardinality bounded; outcome is "hit" or "miss".
func (m *MetricsRecorder) RecordMatch(path, pattern string, matched bool, dur time.Duration) {
	outcome := "miss"
	if matched {
		outcome = "hit"
	}
	m.matchesTotal.WithLabelValues(outcome).Inc()
	m.matchDuration.WithLabelValues(outcome).Observe(dur.Seconds())
}
