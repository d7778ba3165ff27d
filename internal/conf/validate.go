// conf/validate.go

package conf

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/sayah-app/sayah-go/internal/logger"
)

const maxTargetWidth = 4096

// cookieNamePattern matches RFC 6265 token characters
var cookieNamePattern = regexp.MustCompile("^[!#$%&'*+\\-.^_`|~0-9A-Za-z]+$")

var validLogLevels = []string{
	string(logger.LogLevelTrace),
	string(logger.LogLevelDebug),
	string(logger.LogLevelInfo),
	string(logger.LogLevelWarn),
	string(logger.LogLevelError),
}

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) error{
		func(s *Settings) error { return validateServerSettings(&s.Server) },
		func(s *Settings) error { return validateCaptureSettings(&s.Capture) },
		func(s *Settings) error { return validateStorageSettings(&s.Storage) },
		func(s *Settings) error { return validateResourcesSettings(&s.Resources) },
		func(s *Settings) error { return validateLoggingSettings(&s.Logging) },
		func(s *Settings) error { return validateTelemetrySettings(&s.Telemetry) },
		func(s *Settings) error { return validateNotifySettings(&s.Notify) },
	}

	for _, validate := range validators {
		if err := validate(settings); err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateServerSettings(settings *ServerSettings) error {
	if err := validateServerURL(settings.URL); err != nil {
		return err
	}
	if settings.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", settings.Timeout)
	}
	if !cookieNamePattern.MatchString(settings.SessionCookie) {
		return fmt.Errorf("invalid session cookie name '%s'", settings.SessionCookie)
	}
	return nil
}

func validateCaptureSettings(settings *CaptureSettings) error {
	if err := validateTargetWidth(settings.TargetWidth); err != nil {
		return err
	}
	if err := validateQuality(settings.Quality); err != nil {
		return err
	}
	if settings.StagingDir == "" {
		return fmt.Errorf("capture staging directory must be set")
	}
	return nil
}

func validateTargetWidth(width int) error {
	if width <= 0 || width > maxTargetWidth {
		return fmt.Errorf("capture target width must be between 1 and %d, got %d", maxTargetWidth, width)
	}
	return nil
}

func validateQuality(quality float64) error {
	if quality <= 0 || quality > 1 {
		return fmt.Errorf("capture quality must be in (0, 1], got %g", quality)
	}
	return nil
}

func validateStorageSettings(settings *StorageSettings) error {
	if err := validateStorageType(settings.Type); err != nil {
		return err
	}
	if settings.Type == StorageSQLite && settings.Path == "" {
		return fmt.Errorf("storage path must be set for sqlite storage")
	}
	if settings.Type == StorageMySQL && settings.DSN == "" && settings.DSNFile == "" {
		return fmt.Errorf("storage dsn or dsnfile must be set for mysql storage")
	}
	return nil
}

func validateStorageType(value string) error {
	switch value {
	case StorageSQLite, StorageMySQL, StorageMemory:
		return nil
	default:
		return fmt.Errorf("storage type must be %q, %q or %q, got %q", StorageSQLite, StorageMySQL, StorageMemory, value)
	}
}

func validateNotifySettings(settings *NotifySettings) error {
	if settings.Timeout < 0 {
		return fmt.Errorf("notify timeout must not be negative, got %s", settings.Timeout)
	}
	for i, u := range settings.URLs {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("notify url %d is empty", i)
		}
	}
	return nil
}

func validateResourcesSettings(settings *ResourcesSettings) error {
	if settings.CacheTTL < 0 {
		return fmt.Errorf("resources cache TTL must not be negative, got %s", settings.CacheTTL)
	}
	return nil
}

func validateLoggingSettings(settings *logger.LoggingConfig) error {
	check := func(name, level string) error {
		if level != "" && !slices.Contains(validLogLevels, level) {
			return fmt.Errorf("invalid %s log level '%s'", name, level)
		}
		return nil
	}

	if err := check("default", settings.DefaultLevel); err != nil {
		return err
	}
	if settings.Console != nil {
		if err := check("console", settings.Console.Level); err != nil {
			return err
		}
	}
	if settings.FileOutput != nil {
		if err := check("file", settings.FileOutput.Level); err != nil {
			return err
		}
	}
	for module, level := range settings.ModuleLevels {
		if err := check(module, level); err != nil {
			return err
		}
	}
	return nil
}

func validateTelemetrySettings(settings *TelemetrySettings) error {
	if !settings.Enabled {
		return nil
	}
	if settings.DSN == "" && settings.DSNFile == "" {
		return fmt.Errorf("telemetry is enabled but neither dsn nor dsnfile is set")
	}
	if settings.SampleRate < 0 || settings.SampleRate > 1 {
		return fmt.Errorf("telemetry sample rate must be in [0, 1], got %g", settings.SampleRate)
	}
	return nil
}
