package app

import (
	"github.com/sayah-app/sayah-go/internal/conf"
	"github.com/sayah-app/sayah-go/internal/logger"
)

// ConfigureLogging installs the global logger described by settings.
// Debug raises the console to debug level for this run only.
func ConfigureLogging(settings *conf.Settings) (*logger.CentralLogger, error) {
	cfg := settings.Logging
	if settings.Debug {
		console := logger.ConsoleOutput{Enabled: true, Level: string(logger.LogLevelDebug)}
		cfg.Console = &console
		cfg.DefaultLevel = string(logger.LogLevelDebug)
	}

	cl, err := logger.NewCentralLogger(&cfg)
	if err != nil {
		return nil, err
	}
	logger.SetGlobal(cl)
	return cl, nil
}
