// conf/defaults.go default values for settings
package conf

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/sayah-app/sayah-go/internal/logger"
)

// Defaults shared with the capture and api packages.
const (
	DefaultServerURL     = "http://localhost:8000"
	DefaultSessionCookie = "sessionid"
	DefaultTargetWidth   = 500
	DefaultQuality       = 0.8
	DefaultTimeout       = 30 * time.Second
	DefaultResourcesTTL  = 15 * time.Minute
	DefaultNotifyTimeout = 10 * time.Second
)

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig() error {
	dataDir, err := GetDataDir()
	if err != nil {
		return err
	}

	viper.SetDefault("debug", false)

	viper.SetDefault("server.url", DefaultServerURL)
	viper.SetDefault("server.timeout", DefaultTimeout)
	viper.SetDefault("server.useragent", "")
	viper.SetDefault("server.sessioncookie", DefaultSessionCookie)

	viper.SetDefault("capture.targetwidth", DefaultTargetWidth)
	viper.SetDefault("capture.quality", DefaultQuality)
	viper.SetDefault("capture.stagingdir", filepath.Join(dataDir, "staging"))
	viper.SetDefault("capture.camera.command", "")
	viper.SetDefault("capture.camera.args", []string{})

	viper.SetDefault("storage.type", StorageSQLite)
	viper.SetDefault("storage.path", filepath.Join(dataDir, "sayah.db"))
	viper.SetDefault("storage.dsn", "")
	viper.SetDefault("storage.dsnfile", "")

	viper.SetDefault("notify.urls", []string{})
	viper.SetDefault("notify.timeout", DefaultNotifyTimeout)

	viper.SetDefault("resources.cachettl", DefaultResourcesTTL)

	viper.SetDefault("logging.defaultlevel", logger.DefaultLogLevel)
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", string(logger.LogLevelWarn))
	viper.SetDefault("logging.file.enabled", true)
	viper.SetDefault("logging.file.path", filepath.Join(dataDir, "logs", "sayah.log"))
	viper.SetDefault("logging.file.level", logger.DefaultLogLevel)
	viper.SetDefault("logging.file.maxsize", logger.DefaultMaxSize)
	viper.SetDefault("logging.file.maxage", logger.DefaultMaxAge)
	viper.SetDefault("logging.file.maxbackups", logger.DefaultMaxBackups)
	viper.SetDefault("logging.file.compress", false)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.dsn", "")
	viper.SetDefault("telemetry.dsnfile", "")
	viper.SetDefault("telemetry.environment", "production")
	viper.SetDefault("telemetry.samplerate", 1.0)

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.textfile", filepath.Join(dataDir, "metrics", "sayah.prom"))

	return nil
}
