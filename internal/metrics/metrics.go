// Package metrics exports critpath's pipeline, cache and API events as
// Prometheus metrics.
//
// [Metrics] owns the collectors; [Hooks] adapts them to the
// observability hook interfaces so the pipeline and server stay free of any
// Prometheus import:
//
//	reg, m := metrics.NewRegistry()
//	metrics.Install(m)
//	router.Handle("/metrics", metrics.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for critpath.
type Metrics struct {
	// Load metrics
	Loads     *prometheus.CounterVec
	LoadTasks prometheus.Histogram

	// Analysis metrics
	Analyses         *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	AnalysisErrors   *prometheus.CounterVec
	ProjectDuration  prometheus.Histogram

	// Render metrics
	Renders        *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits    *prometheus.CounterVec
	CacheMisses  *prometheus.CounterVec
	CacheWritten *prometheus.CounterVec

	// HTTP metrics
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "critpath_loads_total",
				Help: "Total number of task file loads",
			},
			[]string{"success"},
		),
		LoadTasks: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "critpath_load_tasks",
				Help:    "Number of tasks per loaded file",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
			},
		),

		Analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "critpath_analyses_total",
				Help: "Total number of schedule analyses",
			},
			[]string{"success"},
		),
		AnalysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "critpath_analysis_duration_seconds",
				Help:    "Schedule analysis duration in seconds",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		AnalysisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "critpath_analysis_errors_total",
				Help: "Total number of failed analyses by error code",
			},
			[]string{"error_code"},
		),
		ProjectDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "critpath_project_duration_days",
				Help:    "Project duration of analyzed schedules in days",
				Buckets: []float64{7, 30, 90, 180, 365, 730},
			},
		),

		Renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "critpath_renders_total",
				Help: "Total number of diagram renders",
			},
			[]string{"format", "success"},
		),
		RenderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "critpath_render_duration_seconds",
				Help:    "Diagram render duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"formats"},
		),

		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "critpath_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"kind"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "critpath_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"kind"},
		),
		CacheWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "critpath_cache_written_bytes_total",
				Help: "Total bytes written to the cache",
			},
			[]string{"kind"},
		),

		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "critpath_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "critpath_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "critpath_http_in_flight_requests",
				Help: "Number of HTTP requests being served",
			},
		),
	}
}
