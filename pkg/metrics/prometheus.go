// Package metrics provides Prometheus metrics for the closet outfit service.
package metrics

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the closet service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	scoreBuckets     []float64
	registry         prometheus.Registerer

	// Engine metrics
	outfitsScored     prometheus.Counter
	degenerateScores  prometheus.Counter
	scoreDistribution prometheus.Histogram
	validations       *prometheus.CounterVec
	outfitsGenerated  *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
	randomAttempts    prometheus.Histogram
	randomExhausted   prometheus.Counter
	duplicateOutfits  prometheus.Counter

	// Query metrics
	filterLatency      prometheus.Histogram
	memoHits           prometheus.Counter
	memoMisses         prometheus.Counter
	searchDelivered    prometheus.Counter
	searchSuperseded   prometheus.Counter
	searchSessions     prometheus.Gauge
	filterResultLength prometheus.Histogram

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Catalogue metrics
	catalogueSize             prometheus.Gauge
	catalogueUpdateLatency    prometheus.Histogram
	catalogueQueryLatency     prometheus.Histogram
	catalogueSnapshotDuration prometheus.Histogram
	catalogueSnapshotLastUnix prometheus.Gauge

	// Wardrobe metrics
	wardrobeItems      *prometheus.GaugeVec
	wardrobeLoadErrors prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager and the registry it registers on. Configure swaps both.
var (
	globalManager  atomic.Pointer[Manager]             //nolint:gochecknoglobals // singleton metrics manager
	customRegistry atomic.Pointer[prometheus.Registry] //nolint:gochecknoglobals // registry without default Go metrics
)

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Configure()
}

// Configure rebuilds the global metrics on a fresh registry with opts applied and
// returns that registry. Call it before serving; handlers read GetRegistry once.
func Configure(opts ...Option) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	m := NewManager(append(append([]Option{}, opts...), WithPrometheusRegistry(reg))...)
	customRegistry.Store(reg)
	globalManager.Store(m)
	return reg
}

func current() *Manager {
	return globalManager.Load()
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "closet",
		subsystem:        "outfits",
		histogramBuckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		scoreBuckets:     prometheus.LinearBuckets(10, 10, 10),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(auto promauto.Factory, name, help string) prometheus.Counter {
	return auto.NewCounter(prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help})
}

func (m *Manager) gauge(auto promauto.Factory, name, help string) prometheus.Gauge {
	return auto.NewGauge(prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help})
}

func (m *Manager) histogram(auto promauto.Factory, name, help string, buckets []float64) prometheus.Histogram {
	return auto.NewHistogram(prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.outfitsScored = m.counter(auto, "scored_total", "Total number of outfit selections scored")
	m.degenerateScores = m.counter(auto, "degenerate_scores_total", "Selections that produced no meaningful score")
	m.scoreDistribution = m.histogram(auto, "score_percentage", "Distribution of outfit percentages", m.scoreBuckets)
	m.validations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validations_total",
		Help:      "Validation checks by kind and outcome",
	}, []string{"check", "result"})
	m.outfitsGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generated_total",
		Help:      "Outfits produced by generation operation",
	}, []string{"operation"})
	m.generationLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generation_latency_milliseconds",
		Help:      "Generation latency by operation in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})
	m.randomAttempts = m.histogram(auto, "random_attempts", "Sampling attempts used per random outfit",
		[]float64{1, 2, 4, 8, 16, 32, 64, 128})
	m.randomExhausted = m.counter(auto, "random_exhausted_total", "Random generations that fell back to best effort")
	m.duplicateOutfits = m.counter(auto, "duplicates_total", "Outfits dropped as duplicates during enumeration")

	m.filterLatency = m.histogram(auto, "filter_latency_milliseconds", "Filter computation latency in milliseconds", m.histogramBuckets)
	m.memoHits = m.counter(auto, "filter_memo_hits_total", "Filter invocations served from the memo")
	m.memoMisses = m.counter(auto, "filter_memo_misses_total", "Filter invocations that recomputed")
	m.searchDelivered = m.counter(auto, "search_delivered_total", "Search results delivered to sessions")
	m.searchSuperseded = m.counter(auto, "search_superseded_total", "Search results dropped because a newer input exists")
	m.searchSessions = m.gauge(auto, "search_sessions", "Open search sessions")
	m.filterResultLength = m.histogram(auto, "filter_result_length", "Number of outfits returned by a filter",
		prometheus.ExponentialBuckets(1, 4, 10))

	m.queueSize = m.gauge(auto, "queue_size", "Current size of the search request queue")
	m.queueCapacity = m.gauge(auto, "queue_capacity", "Capacity of the search request queue")
	m.queueUtilization = m.gauge(auto, "queue_utilization_ratio", "Search queue utilization (size / capacity)")
	m.queueEnqueueRate = m.counter(auto, "queue_enqueue_total", "Search requests enqueued")
	m.queueDequeueRate = m.counter(auto, "queue_dequeue_total", "Search requests dequeued")
	m.queueEnqueueErrors = m.counter(auto, "queue_enqueue_errors_total", "Search requests rejected by the queue")

	m.workerActiveCount = m.gauge(auto, "worker_active_count", "Active search workers")
	m.workerProcessingLatency = m.histogram(auto, "worker_processing_latency_milliseconds", "Worker request latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter(auto, "worker_errors_total", "Search worker failures")

	m.catalogueSize = m.gauge(auto, "catalogue_size", "Outfits held in the catalogue")
	m.catalogueUpdateLatency = m.histogram(auto, "catalogue_update_latency_milliseconds", "Catalogue update latency in milliseconds", m.histogramBuckets)
	m.catalogueQueryLatency = m.histogram(auto, "catalogue_query_latency_milliseconds", "Catalogue query latency in milliseconds", m.histogramBuckets)
	m.catalogueSnapshotDuration = m.histogram(auto, "catalogue_snapshot_rebuild_milliseconds", "Catalogue snapshot rebuild duration", m.histogramBuckets)
	m.catalogueSnapshotLastUnix = m.gauge(auto, "catalogue_snapshot_last_unix", "Unix time of the last catalogue snapshot")

	m.wardrobeItems = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "wardrobe_items",
		Help:      "Wardrobe items by category",
	}, []string{"category"})
	m.wardrobeLoadErrors = m.counter(auto, "wardrobe_load_errors_total", "Wardrobe provider failures")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP errors by endpoint, method and type",
	}, []string{"endpoint", "method", "error_type"})
	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = m.gauge(auto, "system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge(auto, "system_goroutine_count", "Number of goroutines")
}

func boolLabel(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

// RecordOutfitScored records one scored selection and its percentage.
func RecordOutfitScored(percentage int) {
	current().outfitsScored.Inc()
	current().scoreDistribution.Observe(float64(percentage))
}

// RecordDegenerateScore records a selection with no meaningful score.
func RecordDegenerateScore() {
	current().degenerateScores.Inc()
}

// RecordValidation records the outcome of a validation check.
func RecordValidation(check string, ok bool) {
	current().validations.WithLabelValues(check, boolLabel(ok)).Inc()
}

// RecordOutfitsGenerated adds n outfits produced by operation.
func RecordOutfitsGenerated(operation string, n int) {
	current().outfitsGenerated.WithLabelValues(operation).Add(float64(n))
}

// RecordGenerationLatency records a generation operation latency.
func RecordGenerationLatency(operation string, latencyMs float64) {
	current().generationLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordRandomAttempts records how many samples a random generation used.
func RecordRandomAttempts(attempts int) {
	current().randomAttempts.Observe(float64(attempts))
}

// RecordRandomExhausted records a random generation that hit its retry bound.
func RecordRandomExhausted() {
	current().randomExhausted.Inc()
}

// RecordDuplicateOutfit records an outfit dropped as a duplicate.
func RecordDuplicateOutfit() {
	current().duplicateOutfits.Inc()
}

// RecordFilterLatency records a filter computation latency.
func RecordFilterLatency(latencyMs float64, results int) {
	current().filterLatency.Observe(latencyMs)
	current().filterResultLength.Observe(float64(results))
}

// RecordMemoHit records a memoized filter invocation.
func RecordMemoHit() {
	current().memoHits.Inc()
}

// RecordMemoMiss records a filter invocation that recomputed.
func RecordMemoMiss() {
	current().memoMisses.Inc()
}

// RecordSearchDelivered records a search result handed to a session.
func RecordSearchDelivered() {
	current().searchDelivered.Inc()
}

// RecordSearchSuperseded records a search result dropped as stale.
func RecordSearchSuperseded() {
	current().searchSuperseded.Inc()
}

// UpdateSearchSessions sets the open search session count.
func UpdateSearchSessions(count int) {
	current().searchSessions.Set(float64(count))
}

// UpdateQueueSize sets the queue size gauge.
func UpdateQueueSize(size int) {
	current().queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	current().queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	current().queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	current().queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	current().queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	current().queueEnqueueErrors.Inc()
}

// UpdateWorkerActiveCount sets the active worker gauge.
func UpdateWorkerActiveCount(count int) {
	current().workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records a worker request latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	current().workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	current().workerErrors.Inc()
}

// UpdateCatalogueSize sets the catalogue size gauge.
func UpdateCatalogueSize(count int) {
	current().catalogueSize.Set(float64(count))
}

// RecordCatalogueUpdateLatency records a catalogue write latency.
func RecordCatalogueUpdateLatency(latencyMs float64) {
	current().catalogueUpdateLatency.Observe(latencyMs)
}

// RecordCatalogueQueryLatency records a catalogue read latency.
func RecordCatalogueQueryLatency(latencyMs float64) {
	current().catalogueQueryLatency.Observe(latencyMs)
}

// RecordCatalogueSnapshot records a snapshot rebuild.
func RecordCatalogueSnapshot(durationMs float64, unix int64) {
	current().catalogueSnapshotDuration.Observe(durationMs)
	current().catalogueSnapshotLastUnix.Set(float64(unix))
}

// UpdateWardrobeItems sets the item count for a category.
func UpdateWardrobeItems(category string, count int) {
	current().wardrobeItems.WithLabelValues(category).Set(float64(count))
}

// RecordWardrobeLoadError increments the wardrobe failure counter.
func RecordWardrobeLoadError() {
	current().wardrobeLoadErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method string, statusCode int) {
	current().httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method string, statusCode int, durationMs float64) {
	current().httpRequestDuration.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Observe(durationMs)
}

// RecordErrorByEndpoint records an HTTP error.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	current().errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	current().errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	current().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	current().systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry holding the service metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry.Load()
}
