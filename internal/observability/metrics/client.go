package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics holds every collector of the sayah client.
type ClientMetrics struct {
	storeOperations *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec

	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	errorsTotal *prometheus.CounterVec
}

// NewClientMetrics creates the collectors and registers them with registry.
func NewClientMetrics(registry *prometheus.Registry) (*ClientMetrics, error) {
	m := &ClientMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register client metrics: %w", err)
	}
	return m, nil
}

func (m *ClientMetrics) initMetrics() {
	m.storeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of key-value store operations.",
		},
		[]string{"operation", "status"}, // operation: get, set, clear
	)
	m.storeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of key-value store operations.",
			Buckets:   prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount12),
		},
		[]string{"operation"},
	)

	m.stageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "capture",
			Name:      "stages_total",
			Help:      "Total number of capture pipeline stages by outcome.",
		},
		[]string{"stage", "status"}, // stage: acquire, submit
	)
	m.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "capture",
			Name:      "stage_duration_seconds",
			Help:      "Duration of capture pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount14),
		},
		[]string{"stage"},
	)

	m.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of response cache lookups.",
		},
		[]string{"resource", "result"}, // result: hit, miss
	)

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of requests to the triage service.",
		},
		[]string{"method", "path", "status"}, // status: HTTP code or "error"
	)
	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Round trip time of requests to the triage service.",
			Buckets:   prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount12),
		},
		[]string{"method", "path"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by component and category.",
		},
		[]string{"component", "category"},
	)
}

// RecordOperation implements the datastore operation hook.
func (m *ClientMetrics) RecordOperation(operation, status string, duration time.Duration) {
	m.storeOperations.WithLabelValues(operation, status).Inc()
	m.storeDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStage implements the capture pipeline hook.
func (m *ClientMetrics) RecordStage(stage, status string, duration time.Duration) {
	m.stageTotal.WithLabelValues(stage, status).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordCacheLookup implements the API cache hook.
func (m *ClientMetrics) RecordCacheLookup(resource string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(resource, result).Inc()
}

// RecordRequest records one HTTP round trip.
func (m *ClientMetrics) RecordRequest(method, path, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError counts a built error.
func (m *ClientMetrics) RecordError(component, category string) {
	m.errorsTotal.WithLabelValues(component, category).Inc()
}

// Describe implements prometheus.Collector.
func (m *ClientMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.storeOperations.Describe(ch)
	m.storeDuration.Describe(ch)
	m.stageTotal.Describe(ch)
	m.stageDuration.Describe(ch)
	m.cacheLookups.Describe(ch)
	m.requestsTotal.Describe(ch)
	m.requestDuration.Describe(ch)
	m.errorsTotal.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *ClientMetrics) Collect(ch chan<- prometheus.Metric) {
	m.storeOperations.Collect(ch)
	m.storeDuration.Collect(ch)
	m.stageTotal.Collect(ch)
	m.stageDuration.Collect(ch)
	m.cacheLookups.Collect(ch)
	m.requestsTotal.Collect(ch)
	m.requestDuration.Collect(ch)
	m.errorsTotal.Collect(ch)
}

var _ Recorder = (*ClientMetrics)(nil)
