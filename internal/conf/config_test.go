package conf

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	if runtime.GOOS == osWindows {
		t.Skip("default path layout differs on windows")
	}
	home := isolateConfig(t)

	settings, err := Load()
	require.NoError(t, err)

	configPath := filepath.Join(home, ".config", "sayah", "config.yaml")
	assert.FileExists(t, configPath)
	assert.Equal(t, filepath.Dir(configPath), settings.ConfigDir)

	assert.Equal(t, DefaultServerURL, settings.Server.URL)
	assert.Equal(t, DefaultTimeout, settings.Server.Timeout)
	assert.Equal(t, DefaultSessionCookie, settings.Server.SessionCookie)
	assert.Equal(t, DefaultTargetWidth, settings.Capture.TargetWidth)
	assert.InDelta(t, DefaultQuality, settings.Capture.Quality, 1e-9)
	assert.Equal(t, StorageSQLite, settings.Storage.Type)
	assert.Equal(t, filepath.Join(home, "data", "sayah", "sayah.db"), settings.Storage.Path)
	assert.Equal(t, filepath.Join(home, "data", "sayah", "staging"), settings.Capture.StagingDir)
	assert.Equal(t, DefaultResourcesTTL, settings.Resources.CacheTTL)
	assert.False(t, settings.Telemetry.Enabled)
	require.NotNil(t, settings.Logging.Console)
	assert.Equal(t, "warn", settings.Logging.Console.Level)

	assert.Same(t, settings, GetSettings())
}

func TestLoadExplicitConfigFile(t *testing.T) {
	home := isolateConfig(t)

	path := filepath.Join(home, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  url: https://triage.example.org
  timeout: 5s
  sessioncookie: sid
capture:
  targetwidth: 320
  quality: 0.5
storage:
  type: memory
resources:
  cachettl: 1m
`), 0o600))
	SetConfigFile(path)

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://triage.example.org", settings.Server.URL)
	assert.Equal(t, 5*time.Second, settings.Server.Timeout)
	assert.Equal(t, "sid", settings.Server.SessionCookie)
	assert.Equal(t, 320, settings.Capture.TargetWidth)
	assert.InDelta(t, 0.5, settings.Capture.Quality, 1e-9)
	assert.Equal(t, StorageMemory, settings.Storage.Type)
	assert.Equal(t, time.Minute, settings.Resources.CacheTTL)
	assert.Equal(t, home, settings.ConfigDir)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	home := isolateConfig(t)
	SetConfigFile(filepath.Join(home, "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv("SAYAH_SERVER_URL", "https://env.example.org")
	t.Setenv("SAYAH_CAPTURE_TARGETWIDTH", "640")
	t.Setenv("SAYAH_STORAGE_TYPE", "memory")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.org", settings.Server.URL)
	assert.Equal(t, 640, settings.Capture.TargetWidth)
	assert.Equal(t, StorageMemory, settings.Storage.Type)
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	isolateConfig(t)
	t.Setenv("SAYAH_CAPTURE_QUALITY", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAYAH_CAPTURE_QUALITY")
}

func TestSaveYAMLConfigRoundTrip(t *testing.T) {
	home := isolateConfig(t)

	settings := validSettings()
	settings.Server.URL = "https://saved.example.org"
	settings.Resources.CacheTTL = 90 * time.Second

	path := filepath.Join(home, "saved", "config.yaml")
	require.NoError(t, SaveYAMLConfig(path, settings))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != osWindows {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "https://saved.example.org", v.GetString("server.url"))
	assert.Equal(t, 90*time.Second, v.GetDuration("resources.cachettl"))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "config-*.yaml"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary file must not be left behind")
}

func TestRedactedHidesSecrets(t *testing.T) {
	settings := validSettings()
	settings.Telemetry.DSN = "https://key@sentry.example/1"
	settings.Storage.DSN = "sayah:pw@tcp(db:3306)/sayah"
	settings.Notify.URLs = []string{"ntfy://:token@ntfy.sh/topic"}

	out := settings.Redacted()
	assert.Equal(t, "[REDACTED]", out.Telemetry.DSN)
	assert.Equal(t, "[REDACTED]", out.Storage.DSN)
	assert.Equal(t, []string{"[REDACTED]"}, out.Notify.URLs)

	assert.Equal(t, "https://key@sentry.example/1", settings.Telemetry.DSN)
	assert.Equal(t, "ntfy://:token@ntfy.sh/topic", settings.Notify.URLs[0], "original is untouched")
}

func TestExpandPath(t *testing.T) {
	home := isolateConfig(t)
	t.Setenv("SAYAH_TEST_DIR", "/srv/sayah")

	assert.Equal(t, filepath.Join(home, "db.sqlite"), ExpandPath("~/db.sqlite"))
	assert.Equal(t, "/srv/sayah/db.sqlite", ExpandPath("${SAYAH_TEST_DIR}/db.sqlite"))
	assert.Equal(t, "relative/path", ExpandPath("relative/path"))
}
