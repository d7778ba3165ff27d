// Package errors - error hooks
package errors

import (
	"sync"
	"sync/atomic"
)

// ErrorHook is called synchronously for every error built while reporting is active.
// Hooks must be cheap and must not build new enhanced errors.
type ErrorHook func(ee *EnhancedError)

var (
	hooksMu    sync.RWMutex
	errorHooks []ErrorHook

	// hasActiveReporting gates the slow path in Build
	hasActiveReporting atomic.Bool
)

// AddErrorHook registers a hook invoked for each built error
func AddErrorHook(hook ErrorHook) {
	if hook == nil {
		return
	}
	hooksMu.Lock()
	errorHooks = append(errorHooks, hook)
	hooksMu.Unlock()
	updateReportingState()
}

// ClearErrorHooks removes all registered hooks
func ClearErrorHooks() {
	hooksMu.Lock()
	errorHooks = nil
	hooksMu.Unlock()
	updateReportingState()
}

func runErrorHooks(ee *EnhancedError) {
	hooksMu.RLock()
	hooks := errorHooks
	hooksMu.RUnlock()

	for _, hook := range hooks {
		hook(ee)
	}
}

func updateReportingState() {
	hooksMu.RLock()
	active := len(errorHooks) > 0
	hooksMu.RUnlock()

	if reporter := GetTelemetryReporter(); reporter != nil && reporter.IsEnabled() {
		active = true
	}
	hasActiveReporting.Store(active)
}
