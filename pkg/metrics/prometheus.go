// Package metrics provides Prometheus metrics for the activities service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Registry operations
	signups         prometheus.Counter
	unregistrations prometheus.Counter
	rejections      *prometheus.CounterVec

	// Registry state
	activities        prometheus.Gauge
	participantsTotal prometheus.Gauge
	participants      *prometheus.GaugeVec

	// Repository latency
	repositoryLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // exported through GetRegistry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "activities",
		subsystem:        "registry",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.signups = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "signups_total",
		Help:        "Total number of accepted activity signups",
		ConstLabels: m.constLabels,
	})

	m.unregistrations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unregistrations_total",
		Help:        "Total number of participants removed from activities",
		ConstLabels: m.constLabels,
	})

	m.rejections = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "rejections_total",
			Help:        "Rejected registry mutations by operation and reason",
			ConstLabels: m.constLabels,
		},
		[]string{"operation", "reason"},
	)

	m.activities = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "activities",
		Help:        "Number of activities in the registry",
		ConstLabels: m.constLabels,
	})

	m.participantsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "participants",
		Help:        "Total number of sign-ups across all activities",
		ConstLabels: m.constLabels,
	})

	m.participants = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "activity_participants",
			Help:        "Current participant count per activity",
			ConstLabels: m.constLabels,
		},
		[]string{"activity"},
	)

	m.repositoryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "repository_operation_latency_milliseconds",
			Help:        "Store operation latency in milliseconds",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			ConstLabels: m.constLabels,
		},
		[]string{"operation"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "HTTP error responses by endpoint",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorsByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_type_total",
			Help:        "HTTP error responses by type and severity",
			ConstLabels: m.constLabels,
		},
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// RecordSignup increments the accepted signup counter.
func (m *Manager) RecordSignup() { m.signups.Inc() }

// RecordUnregistration increments the unregistration counter.
func (m *Manager) RecordUnregistration() { m.unregistrations.Inc() }

// RecordRejection counts a rejected mutation.
func (m *Manager) RecordRejection(operation, reason string) {
	m.rejections.WithLabelValues(operation, reason).Inc()
}

// UpdateRegistry sets the registry gauges from a name -> participant count map.
func (m *Manager) UpdateRegistry(counts map[string]int) {
	total := 0
	for name, n := range counts {
		m.participants.WithLabelValues(name).Set(float64(n))
		total += n
	}
	m.activities.Set(float64(len(counts)))
	m.participantsTotal.Set(float64(total))
}

// UpdateActivityParticipants sets the participant gauge of one activity.
func (m *Manager) UpdateActivityParticipants(activity string, count int) {
	m.participants.WithLabelValues(activity).Set(float64(count))
}

// RecordRepositoryLatency observes one store operation.
func (m *Manager) RecordRepositoryLatency(operation string, latencyMs float64) {
	m.repositoryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest counts one HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an HTTP error response for an endpoint.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an HTTP error response by type and severity.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	m.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the average GC pause.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	m.systemGCPauseTime.Observe(pauseMs)
}

// RecordSignup increments the accepted signup counter.
func RecordSignup() { globalManager.RecordSignup() }

// RecordUnregistration increments the unregistration counter.
func RecordUnregistration() { globalManager.RecordUnregistration() }

// RecordRejection counts a rejected mutation.
func RecordRejection(operation, reason string) { globalManager.RecordRejection(operation, reason) }

// UpdateRegistry sets the registry gauges.
func UpdateRegistry(counts map[string]int) { globalManager.UpdateRegistry(counts) }

// UpdateActivityParticipants sets the participant gauge of one activity.
func UpdateActivityParticipants(activity string, count int) {
	globalManager.UpdateActivityParticipants(activity, count)
}

// RecordRepositoryLatency observes one store operation.
func RecordRepositoryLatency(operation string, latencyMs float64) {
	globalManager.RecordRepositoryLatency(operation, latencyMs)
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint counts an HTTP error response for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RecordErrorByType counts an HTTP error response by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordSystemGCPauseTime(pauseMs) }

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Value returns the current value of the first counter or gauge series in g
// named name whose labels include every pair in labels. Histograms report
// their sample count. It returns false when no series matches.
func Value(g prometheus.Gatherer, name string, labels map[string]string) (float64, bool, error) {
	families, err := g.Gather()
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", ErrGatherFailed, err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			matched := 0
			for _, lp := range metric.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
					matched++
				}
			}
			if matched != len(labels) {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				return metric.GetCounter().GetValue(), true, nil
			case metric.GetGauge() != nil:
				return metric.GetGauge().GetValue(), true, nil
			case metric.GetHistogram() != nil:
				return float64(metric.GetHistogram().GetSampleCount()), true, nil
			}
		}
	}
	return 0, false, nil
}
