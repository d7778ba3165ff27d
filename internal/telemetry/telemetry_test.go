package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayah-app/sayah-go/internal/buildinfo"
	"github.com/sayah-app/sayah-go/internal/conf"
	"github.com/sayah-app/sayah-go/internal/datastore"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/privacy"
)

const testDSN = "https://public@sentry.example.com/1"

// These tests share the global Sentry hub and error reporter, so none run in parallel.

func resetGlobals(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		errors.SetTelemetryReporter(nil)
		errors.SetPrivacyScrubber(nil)
		_ = sentry.Init(sentry.ClientOptions{})
	})
}

func newStore(t *testing.T) datastore.Store {
	t.Helper()
	store := datastore.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInit_Disabled(t *testing.T) {
	resetGlobals(t)

	tel, err := Init(t.Context(), &conf.TelemetrySettings{Enabled: false, DSN: testDSN},
		buildinfo.NewContext("1.0.0", ""), newStore(t))
	require.NoError(t, err)
	assert.False(t, tel.Enabled())
	assert.False(t, errors.GetTelemetryReporter().IsEnabled())

	tel.Close(time.Millisecond)
	tel.CapturePanic("boom")
}

func TestInit_EnabledWithoutDSN(t *testing.T) {
	resetGlobals(t)

	tel, err := Init(t.Context(), &conf.TelemetrySettings{Enabled: true}, buildinfo.NewContext("1.0.0", ""), newStore(t))
	require.NoError(t, err)
	assert.False(t, tel.Enabled())
}

func TestInit_DSNFromFile(t *testing.T) {
	resetGlobals(t)

	path := filepath.Join(t.TempDir(), "dsn")
	require.NoError(t, os.WriteFile(path, []byte(testDSN+"\n"), 0o600))

	transport := &mockTransport{}
	tel, err := Init(t.Context(), &conf.TelemetrySettings{Enabled: true, DSNFile: path, Environment: "test"},
		buildinfo.NewContext("1.0.0", ""), newStore(t), WithTransport(transport))
	require.NoError(t, err)
	assert.True(t, tel.Enabled())
	assert.True(t, privacy.IsValidSystemID(tel.SystemID()))
}

func TestInit_MissingDSNFile(t *testing.T) {
	resetGlobals(t)

	_, err := Init(t.Context(), &conf.TelemetrySettings{Enabled: true, DSNFile: filepath.Join(t.TempDir(), "absent")},
		buildinfo.NewContext("1.0.0", ""), newStore(t))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestReportedErrorsAreScrubbed(t *testing.T) {
	resetGlobals(t)

	transport := &mockTransport{}
	tel, err := Init(t.Context(), &conf.TelemetrySettings{Enabled: true, DSN: testDSN, Environment: "test"},
		buildinfo.NewContext("1.2.3", ""), newStore(t), WithTransport(transport))
	require.NoError(t, err)
	t.Cleanup(func() { tel.Close(time.Second) })

	_ = errors.Newf("upload to https://triage.example.com/analyze/ failed for sessionid=s3cr3t").
		Component("api").
		Category(errors.CategoryUpload).
		Build()

	// User-driven outcomes are not faults and must not be reported.
	_ = errors.Newf("no image").Component("capture").Category(errors.CategoryNoImage).Build()

	events := transport.Events()
	require.Len(t, events, 1)
	event := events[0]
	assert.NotContains(t, event.Message, "s3cr3t")
	assert.NotContains(t, event.Message, "triage.example.com")
	assert.Equal(t, "sayah@1.2.3", event.Release)
	assert.Equal(t, "upload", event.Tags["category"])
	assert.Equal(t, tel.SystemID(), event.Tags["system_id"])
	assert.Empty(t, event.ServerName)
}

func TestSystemID_Persisted(t *testing.T) {
	store := newStore(t)

	first, err := SystemID(t.Context(), store)
	require.NoError(t, err)
	second, err := SystemID(t.Context(), store)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, store.Set(t.Context(), KeySystemID, "garbage"))
	replaced, err := SystemID(t.Context(), store)
	require.NoError(t, err)
	assert.NotEqual(t, "garbage", replaced)
	assert.True(t, privacy.IsValidSystemID(replaced))
}

func TestSystemID_StoreFailure(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Close())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := SystemID(ctx, store)
	require.Error(t, err)
}

func TestApplyPrivacyFilters(t *testing.T) {
	event := &sentry.Event{
		Message:    "login failed for alice@example.com",
		ServerName: "laptop.local",
		User:       sentry.User{ID: "42", IPAddress: "10.0.0.2"},
		Tags:       map[string]string{"hostname": "laptop", "category": "auth"},
		Extra:      map[string]any{"component": "api", "username": "alice"},
		Contexts:   map[string]sentry.Context{"device": {"name": "x"}, "application": {"name": "sayah"}},
		Request:    &sentry.Request{URL: "https://triage.example.com/login/"},
		Exception:  []sentry.Exception{{Value: "sessionid=abc123"}},
	}

	got := applyPrivacyFilters(event)
	require.NotNil(t, got)
	assert.Empty(t, got.ServerName)
	assert.True(t, got.User.IsEmpty())
	assert.Nil(t, got.Request)
	assert.NotContains(t, got.Tags, "hostname")
	assert.Equal(t, "auth", got.Tags["category"])
	assert.Equal(t, map[string]any{"component": "api"}, got.Extra)
	assert.NotContains(t, got.Contexts, "device")
	assert.Contains(t, got.Contexts, "application")
	assert.NotContains(t, got.Message, "alice@example.com")
	assert.NotContains(t, got.Exception[0].Value, "abc123")

	assert.Nil(t, applyPrivacyFilters(nil))
}

func TestHostContext_OmitsIdentifiers(t *testing.T) {
	hc := hostContext(t.Context())
	if hc == nil {
		t.Skip("host info not available on this platform")
	}
	assert.Contains(t, hc, "platform")
	assert.NotContains(t, hc, "hostname")
	assert.NotContains(t, hc, "host_id")
}
