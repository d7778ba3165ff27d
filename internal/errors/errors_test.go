package errors

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)
	ClearErrorHooks()

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Err.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestSentinelMatchesByCategory(t *testing.T) {
	tests := []struct {
		name     string
		category ErrorCategory
		sentinel error
	}{
		{"permission", CategoryPermission, ErrPermissionDenied},
		{"processing", CategoryProcessing, ErrProcessing},
		{"not authenticated", CategoryNotAuthenticated, ErrNotAuthenticated},
		{"upload", CategoryUpload, ErrUpload},
		{"auth", CategoryAuth, ErrAuth},
		{"storage", CategoryStorage, ErrStorage},
		{"session", CategorySession, ErrSession},
		{"no image", CategoryNoImage, ErrNoImage},
		{"busy", CategoryBusy, ErrBusy},
		{"canceled", CategoryCanceled, ErrCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Newf("wrapped %s", tt.name).Category(tt.category).Component("test").Build()
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, fmt.Errorf("outer: %w", err), tt.sentinel)
			assert.True(t, IsCategory(err, tt.category))
			assert.Equal(t, tt.category, CategoryOf(fmt.Errorf("outer: %w", err)))
		})
	}

	assert.NotErrorIs(t, ErrUpload, ErrAuth)
	assert.Equal(t, CategoryGeneric, CategoryOf(NewStd("plain")))
}

func TestCategoryDetection(t *testing.T) {
	SetTelemetryReporter(nil)
	ClearErrorHooks()

	assert.Equal(t, CategoryTimeout, New(NewStd("context deadline exceeded")).Build().Category)
	assert.Equal(t, CategoryNetwork, New(NewStd("dial tcp: connection refused")).Build().Category)
	assert.Equal(t, CategoryPermission, New(NewStd("camera permission refused")).Build().Category)

	// a wrapped enhanced error keeps its category
	inner := New(NewStd("boom")).Category(CategoryStorage).Build()
	outer := New(fmt.Errorf("saving: %w", inner)).Build()
	assert.Equal(t, CategoryStorage, outer.Category)
}

func TestErrorHooks(t *testing.T) {
	SetTelemetryReporter(nil)
	ClearErrorHooks()
	t.Cleanup(ClearErrorHooks)

	var seen atomic.Int32
	var lastCategory atomic.Value
	AddErrorHook(func(ee *EnhancedError) {
		seen.Add(1)
		lastCategory.Store(ee.Category)
	})

	_ = New(NewStd("upload exploded")).Category(CategoryUpload).Component("api").Build()

	assert.Equal(t, int32(1), seen.Load())
	assert.Equal(t, CategoryUpload, lastCategory.Load())

	ClearErrorHooks()
	_ = New(NewStd("ignored")).Build()
	assert.Equal(t, int32(1), seen.Load())
}

type recordingReporter struct {
	reported []*EnhancedError
}

func (r *recordingReporter) IsEnabled() bool { return true }

func (r *recordingReporter) ReportError(ee *EnhancedError) {
	r.reported = append(r.reported, ee)
	ee.MarkReported()
}

func TestTelemetryReporterReceivesErrors(t *testing.T) {
	ClearErrorHooks()
	reporter := &recordingReporter{}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(NewStd("server said no")).Category(CategoryUpload).Context("operation", "analyze_image").Build()

	require.Len(t, reporter.reported, 1)
	assert.Same(t, ee, reporter.reported[0])
	assert.True(t, ee.IsReported())
	assert.Equal(t, "analyze_image", ee.GetContext()["operation"])
}

func TestShouldReport(t *testing.T) {
	assert.False(t, shouldReport(CategoryCanceled))
	assert.False(t, shouldReport(CategoryBusy))
	assert.False(t, shouldReport(CategoryNotAuthenticated))
	assert.True(t, shouldReport(CategoryUpload))
	assert.True(t, shouldReport(CategoryStorage))
}

func TestGenerateErrorTitle(t *testing.T) {
	ee := New(NewStd("x")).Component("api").Category(CategoryUpload).Context("operation", "analyze_image").Build()
	assert.Equal(t, "Api Upload Error Analyze Image", generateErrorTitle(ee))
}

func TestRegexPrecompilation(t *testing.T) {
	scrubbed := basicURLScrub("Error at https://api.example.com?api_key=secret123&token=abc")
	assert.Equal(t, "Error at https://api.example.com?[REDACTED]", scrubbed)

	scrubbed = basicURLScrub("Config error: api_key=secret123 is invalid")
	assert.Contains(t, scrubbed, "[API_KEY_REDACTED]")

	scrubbed = basicURLScrub("Auth failed with token=abc123 and auth=xyz789")
	assert.NotContains(t, scrubbed, "abc123")
	assert.NotContains(t, scrubbed, "xyz789")

	scrubbed = basicURLScrub("login failed for jane.doe@example.com password=hunter2")
	assert.NotContains(t, scrubbed, "jane.doe@example.com")
	assert.NotContains(t, scrubbed, "hunter2")
}

func TestFileContextAnonymized(t *testing.T) {
	fe := FileError(NewStd("read failed"), "/home/user/throat.jpg", 2048)
	ctx := fe.GetContext()
	assert.Equal(t, "absolute-path", ctx["file_type"])
	assert.Equal(t, "jpg", ctx["file_extension"])
	assert.Equal(t, "small", ctx["file_size_category"])
	assert.Equal(t, CategoryFileIO, fe.Category)
}
