// Package metrics provides Prometheus metrics for the tennis comparison service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Comparison metrics
	comparisons       *prometheus.CounterVec
	comparisonErrors  *prometheus.CounterVec
	comparisonLatency prometheus.Histogram
	notes             prometheus.Counter
	ratingOutcomes    *prometheus.CounterVec
	resolutions       *prometheus.CounterVec

	// Dataset metrics
	datasetFetches      *prometheus.CounterVec
	datasetFetchLatency prometheus.Histogram
	datasetRows         *prometheus.CounterVec
	rosterSize          prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tennis_compare",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.comparisons = auto.NewCounterVec(m.counterOpts("comparisons_total",
		"Completed comparisons by verdict"), []string{"verdict"})
	m.comparisonErrors = auto.NewCounterVec(m.counterOpts("comparison_errors_total",
		"Comparisons that failed, by error kind"), []string{"kind"})
	m.comparisonLatency = auto.NewHistogram(m.histogramOpts("comparison_latency_milliseconds",
		"End-to-end comparison latency in milliseconds, data loading included"))
	m.notes = auto.NewCounter(m.counterOpts("comparison_notes_total",
		"Caveat notes attached to comparison results"))
	m.ratingOutcomes = auto.NewCounterVec(m.counterOpts("rating_outcomes_total",
		"Per-side rating outcomes by fallback status"), []string{"status"})
	m.resolutions = auto.NewCounterVec(m.counterOpts("resolutions_total",
		"Player name resolutions by outcome"), []string{"outcome"})

	m.datasetFetches = auto.NewCounterVec(m.counterOpts("dataset_fetches_total",
		"Dataset fetches by result (downloaded, not_modified, stale, failed)"), []string{"result"})
	m.datasetFetchLatency = auto.NewHistogram(m.histogramOpts("dataset_fetch_latency_milliseconds",
		"Dataset fetch latency in milliseconds"))
	m.datasetRows = auto.NewCounterVec(m.counterOpts("dataset_rows_parsed_total",
		"CSV rows parsed by dataset kind"), []string{"kind"})
	m.rosterSize = auto.NewGauge(m.gaugeOpts("roster_size",
		"Distinct players in the last parsed roster"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
}

// RecordComparison counts a completed comparison and its caveats.
func (m *Manager) RecordComparison(verdict string, notes int, latencyMs float64) {
	m.comparisons.WithLabelValues(verdict).Inc()
	m.notes.Add(float64(notes))
	m.comparisonLatency.Observe(latencyMs)
}

// RecordComparisonError counts a failed comparison.
func (m *Manager) RecordComparisonError(kind string) {
	m.comparisonErrors.WithLabelValues(kind).Inc()
}

// RecordRatingOutcome counts one side's rating fallback status.
func (m *Manager) RecordRatingOutcome(status string) {
	m.ratingOutcomes.WithLabelValues(status).Inc()
}

// RecordResolution counts a name resolution: exact, fuzzy or unresolved.
func (m *Manager) RecordResolution(outcome string) {
	m.resolutions.WithLabelValues(outcome).Inc()
}

// RecordDatasetFetch counts a fetch and observes its latency.
func (m *Manager) RecordDatasetFetch(result string, latencyMs float64) {
	m.datasetFetches.WithLabelValues(result).Inc()
	m.datasetFetchLatency.Observe(latencyMs)
}

// RecordRowsParsed adds parsed CSV rows for kind (players, matches).
func (m *Manager) RecordRowsParsed(kind string, rows int) {
	m.datasetRows.WithLabelValues(kind).Add(float64(rows))
}

// UpdateRosterSize sets the roster size gauge.
func (m *Manager) UpdateRosterSize(n int) {
	m.rosterSize.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystem sets the memory and goroutine gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int) {
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Package-level helpers record on the global manager.

// RecordComparison counts a completed comparison on the global manager.
func RecordComparison(verdict string, notes int, latencyMs float64) {
	globalManager.RecordComparison(verdict, notes, latencyMs)
}

// RecordComparisonError counts a failed comparison on the global manager.
func RecordComparisonError(kind string) { globalManager.RecordComparisonError(kind) }

// RecordRatingOutcome counts a rating outcome on the global manager.
func RecordRatingOutcome(status string) { globalManager.RecordRatingOutcome(status) }

// RecordResolution counts a resolution on the global manager.
func RecordResolution(outcome string) { globalManager.RecordResolution(outcome) }

// RecordDatasetFetch counts a fetch on the global manager.
func RecordDatasetFetch(result string, latencyMs float64) {
	globalManager.RecordDatasetFetch(result, latencyMs)
}

// RecordRowsParsed adds parsed rows on the global manager.
func RecordRowsParsed(kind string, rows int) { globalManager.RecordRowsParsed(kind, rows) }

// UpdateRosterSize sets the roster gauge on the global manager.
func UpdateRosterSize(n int) { globalManager.UpdateRosterSize(n) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint records an endpoint error on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystem sets the system gauges on the global manager.
func UpdateSystem(memoryBytes uint64, goroutines int) {
	globalManager.UpdateSystem(memoryBytes, goroutines)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
