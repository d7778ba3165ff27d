package errors

import (
	"fmt"
	"testing"
)

func resetReporting(b *testing.B) {
	b.Helper()
	SetTelemetryReporter(nil)
	ClearErrorHooks()
	b.Cleanup(func() {
		SetTelemetryReporter(nil)
		ClearErrorHooks()
	})
}

// Errors on the upload path are built once per submission and matched
// against sentinels by the CLI, so both sides are measured.
func BenchmarkUploadErrorPath(b *testing.B) {
	resetReporting(b)
	transport := fmt.Errorf("dial tcp: connection refused")

	b.Run("build", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_ = New(transport).
				Component("api").
				Category(CategoryUpload).
				Context("endpoint", "/analyze/").
				Context("status_code", 502).
				Build()
		}
	})

	b.Run("inherit category", func(b *testing.B) {
		inner := New(transport).Component("api").Category(CategoryUpload).Build()
		b.ReportAllocs()
		for b.Loop() {
			_ = New(inner).Component("capture").Build()
		}
	})

	b.Run("match sentinel", func(b *testing.B) {
		err := fmt.Errorf("submit: %w", New(transport).Component("api").Category(CategoryUpload).Build())
		b.ReportAllocs()
		for b.Loop() {
			if !Is(err, ErrUpload) || Is(err, ErrCanceled) {
				b.Fatal("sentinel mismatch")
			}
		}
	})

	b.Run("category of", func(b *testing.B) {
		err := fmt.Errorf("submit: %w", New(transport).Component("api").Category(CategoryUpload).Build())
		b.ReportAllocs()
		for b.Loop() {
			_ = CategoryOf(err)
		}
	})
}

// With a hook registered every Build takes the slow path: stack walk for
// the component and the hook call.
func BenchmarkBuildWithHook(b *testing.B) {
	resetReporting(b)
	var seen int
	AddErrorHook(func(*EnhancedError) { seen++ })

	b.ReportAllocs()
	for b.Loop() {
		_ = Newf("image decode failed").Category(CategoryProcessing).Build()
	}
	if seen == 0 {
		b.Fatal("hook never ran")
	}
}

func BenchmarkScrubUploadMessage(b *testing.B) {
	msg := "POST https://triage.example.com/analyze/ failed: sessionid=4f1c2a9d8e7b6a50; user dana@example.com"

	b.ReportAllocs()
	for b.Loop() {
		_ = basicURLScrub(msg)
	}
}
