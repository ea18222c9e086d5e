// Package metrics provides Prometheus metrics for the vitals scoring service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the vitals service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Scoring
	computations       *prometheus.CounterVec
	computationLatency *prometheus.HistogramVec
	componentScores    *prometheus.HistogramVec
	fallbacks          *prometheus.CounterVec
	elevated           *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// Batch
	batchJobs          *prometheus.CounterVec
	batchActiveWorkers prometheus.Gauge
	batchLatency       prometheus.Histogram

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// global pairs the process-wide manager with the registry served by /healthz.
type global struct {
	manager  *Manager
	registry *prometheus.Registry
}

var current atomic.Pointer[global] //nolint:gochecknoglobals // singleton used by the package-level helpers

func init() { //nolint:gochecknoinits // global metrics setup
	Configure()
}

// Configure replaces the process-wide manager with one built from opts on a
// fresh custom registry, and returns it. Call it before constructing the
// service and the HTTP handlers, which capture the manager and registry.
func Configure(opts ...Option) *Manager {
	// Custom registry to avoid default Go metrics.
	registry := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(registry))...)
	current.Store(&global{manager: m, registry: registry})
	return m
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vitals",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.computations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "computations_total",
		Help:        "Total number of score computations by calculator",
		ConstLabels: labels,
	}, []string{"calculator"})

	m.computationLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "computation_latency_milliseconds",
		Help:        "Score computation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"calculator"})

	m.componentScores = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "component_score",
		Help:        "Distribution of component scores (0-100)",
		Buckets:     prometheus.LinearBuckets(10, 10, 10), //nolint:mnd // deciles of the score range
		ConstLabels: labels,
	}, []string{"calculator", "component"})

	m.fallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fallbacks_total",
		Help:        "Components scored with a neutral fallback value",
		ConstLabels: labels,
	}, []string{"calculator", "component"})

	m.elevated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "elevated_total",
		Help:        "Readiness metrics flagged as elevated",
		ConstLabels: labels,
	}, []string{"metric"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Errors by endpoint, method and error type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_type_total",
		Help:        "Errors by type and severity",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.batchJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "batch_jobs_total",
		Help:        "Batch jobs by final status",
		ConstLabels: labels,
	}, []string{"status"})

	m.batchActiveWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "batch_active_workers",
		Help:        "Number of batch workers currently running a job",
		ConstLabels: labels,
	})

	m.batchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "batch_latency_milliseconds",
		Help:        "Wall time of a complete batch in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "Heap bytes allocated by the process",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}, //nolint:mnd // pause buckets
		ConstLabels: labels,
	})
}

// RecordComputation counts one computation and its latency.
func (m *Manager) RecordComputation(calculator string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.computations.WithLabelValues(calculator).Inc()
	m.computationLatency.WithLabelValues(calculator).Observe(latencyMs)
}

// RecordComponentScore records a component score, or a fallback when the
// score is a neutral policy value.
func (m *Manager) RecordComponentScore(calculator, component string, score float64, fallback bool) {
	if !m.enabled {
		return
	}
	if fallback {
		m.fallbacks.WithLabelValues(calculator, component).Inc()
		return
	}
	m.componentScores.WithLabelValues(calculator, component).Observe(score)
}

// RecordElevated counts a readiness metric flagged as elevated.
func (m *Manager) RecordElevated(metric string) {
	if !m.enabled {
		return
	}
	m.elevated.WithLabelValues(metric).Inc()
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError records an error with endpoint and severity labels.
func (m *Manager) RecordError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordBatchJob counts a finished batch job by status.
func (m *Manager) RecordBatchJob(status string) {
	if !m.enabled {
		return
	}
	m.batchJobs.WithLabelValues(status).Inc()
}

// AddBatchWorkers adjusts the active batch worker gauge by delta.
func (m *Manager) AddBatchWorkers(delta int) {
	if !m.enabled {
		return
	}
	m.batchActiveWorkers.Add(float64(delta))
}

// RecordBatchLatency observes the wall time of a batch.
func (m *Manager) RecordBatchLatency(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.batchLatency.Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the allocated heap size in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if !m.enabled {
		return
	}
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemGCPauseTime.Observe(pauseMs)
}

// Global helpers.

// Default returns the process-wide manager.
func Default() *Manager { return current.Load().manager }

// RecordComputation counts a computation on the global manager.
func RecordComputation(calculator string, latencyMs float64) {
	Default().RecordComputation(calculator, latencyMs)
}

// RecordComponentScore records a component score on the global manager.
func RecordComponentScore(calculator, component string, score float64, fallback bool) {
	Default().RecordComponentScore(calculator, component, score, fallback)
}

// RecordElevated counts an elevated metric on the global manager.
func RecordElevated(metric string) {
	Default().RecordElevated(metric)
}

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	Default().RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordError records an error on the global manager.
func RecordError(endpoint, method, errorType, severity string) {
	Default().RecordError(endpoint, method, errorType, severity)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	Default().UpdateSystemMemoryUsage(bytes)
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	Default().UpdateSystemGoroutineCount(count)
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	Default().RecordSystemGCPauseTime(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return current.Load().registry
}
