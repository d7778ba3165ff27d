// Package metrics defines the Prometheus collectors for the sayah client.
package metrics

// Status labels shared by every operation counter.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// Histogram bucket parameters.
const (
	BucketStart1ms  = 0.001
	BucketStart10ms = 0.01
	BucketFactor2   = 2.0
	BucketCount12   = 12
	BucketCount14   = 14
)

// Namespace prefixes every metric name.
const Namespace = "sayah"
