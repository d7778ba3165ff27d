// env.go - environment variable configuration and validation
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envLookup reads environment variables; replaced in tests.
var envLookup = os.Getenv

// envBinding holds metadata for environment variable bindings
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "SAYAH_DEBUG", validateEnvBool},

		{"server.url", "SAYAH_SERVER_URL", validateEnvURL},
		{"server.timeout", "SAYAH_SERVER_TIMEOUT", validateEnvDuration},
		{"server.sessioncookie", "SAYAH_SERVER_SESSIONCOOKIE", nil},

		{"capture.targetwidth", "SAYAH_CAPTURE_TARGETWIDTH", validateEnvTargetWidth},
		{"capture.quality", "SAYAH_CAPTURE_QUALITY", validateEnvQuality},
		{"capture.stagingdir", "SAYAH_CAPTURE_STAGINGDIR", nil},
		{"capture.camera.command", "SAYAH_CAMERA_COMMAND", nil},

		{"storage.type", "SAYAH_STORAGE_TYPE", validateEnvStorageType},
		{"storage.path", "SAYAH_STORAGE_PATH", nil},
		{"storage.dsn", "SAYAH_STORAGE_DSN", nil},
		{"storage.dsnfile", "SAYAH_STORAGE_DSNFILE", nil},

		{"resources.cachettl", "SAYAH_RESOURCES_CACHETTL", validateEnvDuration},

		{"telemetry.enabled", "SAYAH_TELEMETRY_ENABLED", validateEnvBool},
		{"telemetry.dsn", "SAYAH_TELEMETRY_DSN", nil},
		{"telemetry.dsnfile", "SAYAH_TELEMETRY_DSNFILE", nil},

		{"metrics.enabled", "SAYAH_METRICS_ENABLED", validateEnvBool},
		{"metrics.textfile", "SAYAH_METRICS_TEXTFILE", nil},

		{"notify.timeout", "SAYAH_NOTIFY_TIMEOUT", validateEnvDuration},
	}
}

// bindEnvVars sets up environment variable bindings with validation
func bindEnvVars(lookup func(string) string) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := lookup(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("Invalid %s value: %v", binding.EnvVar, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvURL(value string) error {
	return validateServerURL(strings.TrimSpace(value))
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid duration '%s': %w", value, err)
	}
	if d < 0 {
		return fmt.Errorf("duration must not be negative, got %s", d)
	}
	return nil
}

func validateEnvTargetWidth(value string) error {
	width, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid target width: %w", err)
	}
	return validateTargetWidth(width)
}

func validateEnvQuality(value string) error {
	quality, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("invalid quality: %w", err)
	}
	return validateQuality(quality)
}

func validateEnvStorageType(value string) error {
	return validateStorageType(strings.TrimSpace(value))
}

// validateServerURL accepts absolute http and https URLs only
func validateServerURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid server URL '%s': %w", value, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL must use http or https, got '%s'", value)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL must include a host, got '%s'", value)
	}
	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables() error {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindEnvVars(envLookup)
}
