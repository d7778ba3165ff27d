package app

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/api"
	"github.com/sayah-app/sayah-go/internal/buildinfo"
	"github.com/sayah-app/sayah-go/internal/conf"
	"github.com/sayah-app/sayah-go/internal/datastore"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/httpclient"
	"github.com/sayah-app/sayah-go/internal/logger"
	"github.com/sayah-app/sayah-go/internal/session"
)

const testServer = "https://triage.test"

func testSettings(t *testing.T) *conf.Settings {
	t.Helper()
	return &conf.Settings{
		Server:  conf.ServerSettings{URL: testServer},
		Storage: conf.StorageSettings{Type: conf.StorageMemory},
		Capture: conf.CaptureSettings{StagingDir: t.TempDir()},
	}
}

func newTestApp(t *testing.T, settings *conf.Settings, input string) (*App, *httpmock.MockTransport) {
	t.Helper()

	cfg := httpclient.DefaultConfig()
	hc := httpclient.New(&cfg)
	mock := httpmock.NewMockTransport()
	hc.HTTPClient().Transport = mock
	t.Cleanup(hc.Close)

	a := &App{}
	dialog := &alert.TerminalDialog{In: strings.NewReader(input), Out: &bytes.Buffer{}, Interactive: input != ""}
	require.NoError(t, a.Init(t.Context(), settings, buildinfo.NewContext("0.1.0", ""),
		WithStore(datastore.NewMemoryStore()),
		WithHTTPClient(hc),
		WithDialog(dialog),
		WithOutput(&bytes.Buffer{}),
	))
	t.Cleanup(func() { _ = a.Close() })
	return a, mock
}

func TestInit_WiresComponents(t *testing.T) {
	a, _ := newTestApp(t, testSettings(t), "")

	assert.True(t, a.Initialized())
	assert.NotNil(t, a.Gate)
	assert.NotNil(t, a.Preferences)
	assert.NotNil(t, a.API)
	assert.NotNil(t, a.Normalizer)
	assert.Nil(t, a.Metrics, "metrics are off by default")
	assert.False(t, a.Telemetry.Enabled())
	assert.Equal(t, session.RouteOnboarding, a.Gate.Flow())
}

func TestInit_InvalidServerURL(t *testing.T) {
	settings := testSettings(t)
	settings.Server.URL = "ftp://nope"

	a := &App{}
	err := a.Init(t.Context(), settings, buildinfo.NewContext("", ""), WithStore(datastore.NewMemoryStore()))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
	assert.False(t, a.Initialized())
}

func TestInit_UnusableStoreFallsBackToMemory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	settings := testSettings(t)
	settings.Storage = conf.StorageSettings{Type: conf.StorageSQLite, Path: filepath.Join(blocker, "sayah.db")}

	a := &App{}
	require.NoError(t, a.Init(t.Context(), settings, buildinfo.NewContext("", ""), WithOutput(&bytes.Buffer{})))
	t.Cleanup(func() { _ = a.Close() })

	assert.True(t, a.StoreFallback)
	assert.IsType(t, &datastore.MemoryStore{}, a.Store)
	assert.Equal(t, session.RouteOnboarding, a.Gate.DetermineInitialRoute(t.Context()))
	require.NoError(t, a.Gate.CompleteOnboarding(t.Context()), "the run stays usable")
}

func TestInit_StoreConfigurationErrorIsFatal(t *testing.T) {
	settings := testSettings(t)
	settings.Storage = conf.StorageSettings{Type: conf.StorageSQLite}

	a := &App{}
	err := a.Init(t.Context(), settings, buildinfo.NewContext("", ""), WithOutput(&bytes.Buffer{}))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestRequireFlow(t *testing.T) {
	a, _ := newTestApp(t, testSettings(t), "")
	ctx := t.Context()

	_, err := a.RequireFlow(ctx, session.RouteMain)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryState))
	assert.Contains(t, err.Error(), "sayah onboard")

	require.NoError(t, a.Gate.CompleteOnboarding(ctx))
	_, err = a.RequireFlow(ctx, session.RouteMain)
	require.ErrorIs(t, err, errors.ErrNotAuthenticated)
	assert.Equal(t, session.RouteAuthentication, a.Gate.Flow())

	route, err := a.RequireFlow(ctx, session.RouteAuthentication, session.RouteMain)
	require.NoError(t, err)
	assert.Equal(t, session.RouteAuthentication, route)

	require.NoError(t, a.Gate.CompleteLogin(ctx, "sess-1"))
	_, err = a.RequireFlow(ctx, session.RouteAuthentication)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryState))
}

func TestCredentials(t *testing.T) {
	prompts := 0
	orig := passwordPrompt
	passwordPrompt = func(string) (string, error) {
		prompts++
		return "typed", nil
	}
	t.Cleanup(func() { passwordPrompt = orig })

	a, _ := newTestApp(t, testSettings(t), "dana\n")

	creds, err := a.Credentials(t.Context(), CredentialFlags{})
	require.NoError(t, err)
	assert.Equal(t, api.Credentials{Username: "dana", Password: "typed"}, creds)
	assert.Equal(t, 1, prompts)

	pwFile := filepath.Join(t.TempDir(), "pw")
	require.NoError(t, os.WriteFile(pwFile, []byte("from-file\n"), 0o600))
	creds, err = a.Credentials(t.Context(), CredentialFlags{Username: " lee ", Password: "ignored", PasswordFile: pwFile})
	require.NoError(t, err)
	assert.Equal(t, api.Credentials{Username: "lee", Password: "from-file"}, creds)
	assert.Equal(t, 1, prompts, "no prompt when a password is supplied")
}

func TestCredentials_NonInteractiveUsername(t *testing.T) {
	a, _ := newTestApp(t, testSettings(t), "")

	_, err := a.Credentials(t.Context(), CredentialFlags{Password: "x"})
	require.Error(t, err)
}

func TestLoginLogout(t *testing.T) {
	a, mock := newTestApp(t, testSettings(t), "")
	ctx := t.Context()
	require.NoError(t, a.Gate.CompleteOnboarding(ctx))

	mock.RegisterResponder(http.MethodPost, testServer+"/login/",
		httpmock.NewStringResponder(http.StatusOK, `{"success":true,"sessionId":"sess-9"}`))

	require.NoError(t, a.Login(ctx, api.Credentials{Username: "dana", Password: "pw"}))
	token, err := a.Gate.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-9", token)
	assert.Equal(t, session.RouteMain, a.Gate.Flow())

	require.NoError(t, a.Logout(ctx))
	token, err = a.Gate.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, session.RouteAuthentication, a.Gate.Flow())
}

func TestClose_WritesMetricsTextFile(t *testing.T) {
	settings := testSettings(t)
	settings.Metrics.Enabled = true
	settings.Metrics.TextFile = filepath.Join(t.TempDir(), "metrics", "sayah.prom")

	a, _ := newTestApp(t, settings, "")
	require.NotNil(t, a.Metrics)

	a.Metrics.Client.RecordOperation("get", "success", time.Millisecond)

	require.NoError(t, a.Close())
	assert.False(t, a.Initialized())

	data, err := os.ReadFile(settings.Metrics.TextFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sayah_store_operations_total")

	require.NoError(t, a.Close(), "second close is a no-op")
}

func TestShown(t *testing.T) {
	assert.NoError(t, Shown(nil))

	err := Shown(errors.ErrUpload)
	var shown *ShownError
	require.ErrorAs(t, err, &shown)
	require.ErrorIs(t, err, errors.ErrUpload)
	assert.Equal(t, errors.ErrUpload.Error(), err.Error())
}

func TestConfigureLogging(t *testing.T) {
	settings := testSettings(t)
	settings.Debug = true
	settings.Logging.DefaultLevel = "info"
	prev := logger.Global()
	t.Cleanup(func() { logger.SetGlobal(prev) })

	l, err := ConfigureLogging(settings)
	require.NoError(t, err)
	require.NotNil(t, l)
}
