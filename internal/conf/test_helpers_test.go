package conf

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// isolateConfig points the home and data directories at a temp dir and resets viper state.
func isolateConfig(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))

	viper.Reset()
	SetConfigFile("")
	t.Cleanup(func() {
		viper.Reset()
		SetConfigFile("")
	})

	return home
}

func validSettings() *Settings {
	s := &Settings{}
	s.Server.URL = DefaultServerURL
	s.Server.Timeout = DefaultTimeout
	s.Server.SessionCookie = DefaultSessionCookie
	s.Capture.TargetWidth = DefaultTargetWidth
	s.Capture.Quality = DefaultQuality
	s.Capture.StagingDir = "/tmp/staging"
	s.Storage.Type = StorageSQLite
	s.Storage.Path = "/tmp/sayah.db"
	s.Resources.CacheTTL = DefaultResourcesTTL
	return s
}
