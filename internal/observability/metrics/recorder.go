package metrics

import "time"

// Recorder is the union of the observation hooks the client components accept.
// ClientMetrics and TestRecorder both satisfy it.
type Recorder interface {
	// RecordOperation records a key-value store operation.
	RecordOperation(operation, status string, duration time.Duration)
	// RecordStage records a capture pipeline stage.
	RecordStage(stage, status string, duration time.Duration)
	// RecordCacheLookup records a resource cache hit or miss.
	RecordCacheLookup(resource string, hit bool)
	// RecordRequest records one round trip to the triage service.
	RecordRequest(method, path, status string, duration time.Duration)
	// RecordError records a built error by component and category.
	RecordError(component, category string)
}
