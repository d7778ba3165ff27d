// config.go: settings for the SayAh client and functions to load and save them.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

const (
	configFileName = "config.yaml"
	dirPermissions = 0o700
	filePermission = 0o600
)

// Settings contains all configuration options for the SayAh client.
type Settings struct {
	Debug bool // true to enable debug logging on the console

	// Runtime values, not stored in config file
	Version   string `yaml:"-" mapstructure:"-"`
	BuildDate string `yaml:"-" mapstructure:"-"`
	ConfigDir string `yaml:"-" mapstructure:"-"` // directory the config was read from

	Server    ServerSettings
	Capture   CaptureSettings
	Storage   StorageSettings
	Resources ResourcesSettings
	Logging   logger.LoggingConfig
	Telemetry TelemetrySettings
	Metrics   MetricsSettings
	Notify    NotifySettings
}

// ServerSettings configures the remote triage service.
type ServerSettings struct {
	URL           string        // base URL, e.g. https://sayah.example.org
	Timeout       time.Duration // per-request timeout
	UserAgent     string        // User-Agent header; empty uses the build default
	SessionCookie string        // cookie carrying the session identifier
}

// CaptureSettings configures image acquisition and normalization.
type CaptureSettings struct {
	TargetWidth int     // width in pixels after resize
	Quality     float64 // JPEG quality in (0,1]
	StagingDir  string  // directory for normalized images
	Camera      CameraSettings
}

// CameraSettings configures the external command used to take a photo.
// The command receives the output path as its last argument.
type CameraSettings struct {
	Command string
	Args    []string
}

// StorageSettings configures the persisted key-value store.
type StorageSettings struct {
	Type    string // sqlite, mysql or memory
	Path    string // sqlite database path
	DSN     string // mysql DSN, may reference ${ENV_VAR}
	DSNFile string // file holding the mysql DSN, takes precedence over DSN
}

// ResourcesSettings configures the educational resources cache.
type ResourcesSettings struct {
	CacheTTL time.Duration
}

// TelemetrySettings configures optional error reporting.
type TelemetrySettings struct {
	Enabled     bool
	DSN         string // Sentry DSN, may reference ${ENV_VAR}
	DSNFile     string // file holding the DSN, takes precedence over DSN
	Environment string
	SampleRate  float64
}

// NotifySettings configures push notifications for new results. They are
// sent only while the notifications preference is on.
type NotifySettings struct {
	URLs    []string      // shoutrrr service URLs, may reference ${ENV_VAR}
	Timeout time.Duration // per-send timeout
}

// MetricsSettings configures the Prometheus textfile export.
type MetricsSettings struct {
	Enabled  bool
	TextFile string // node_exporter textfile collector target
}

const (
	StorageSQLite = "sqlite"
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
	configFileFlag   string
)

// SetConfigFile makes Load read an explicit file instead of searching the default paths.
func SetConfigFile(path string) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	configFileFlag = path
}

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal_config").
			Build()
	}

	if used := viper.ConfigFileUsed(); used != "" {
		settings.ConfigDir = filepath.Dir(used)
	}
	settings.expandPaths()

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigType("yaml")

	if configFileFlag != "" {
		viper.SetConfigFile(configFileFlag)
	} else {
		viper.SetConfigName("config")

		configPaths, err := GetDefaultConfigPaths()
		if err != nil {
			return fmt.Errorf("error getting default config paths: %w", err)
		}
		for _, path := range configPaths {
			viper.AddConfigPath(path)
		}
	}

	// function defined in defaults.go
	if err := setDefaultConfig(); err != nil {
		return err
	}

	if err := configureEnvironmentVariables(); err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "bind_environment").
			Build()
	}

	err := viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) && configFileFlag == "" {
			return createDefaultConfig()
		}
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "read_config").
			Build()
	}

	return nil
}

// createDefaultConfig writes the embedded default config to the first default path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], configFileName)

	defaultConfig, err := getDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), dirPermissions); err != nil {
		return errors.FileError(fmt.Errorf("error creating directories for config file: %w", err), configPath, 0)
	}

	if err := os.WriteFile(configPath, defaultConfig, filePermission); err != nil {
		return errors.FileError(fmt.Errorf("error writing default config file: %w", err), configPath, 0)
	}

	logger.Global().Module("configuration").Info("created default config file", logger.String("path", configPath))
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() ([]byte, error) {
	data, err := fs.ReadFile(configFiles, configFileName)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "read_embedded_config").
			Build()
	}
	return data, nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveSettings writes the current settings to the config file in use.
func SaveSettings() error {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()

	if settingsInstance == nil {
		return errors.Newf("settings not loaded").
			Category(errors.CategoryState).
			Context("operation", "save_settings").
			Build()
	}

	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		var err error
		if configPath, err = FindConfigFile(); err != nil {
			return err
		}
	}

	settingsCopy := *settingsInstance
	return SaveYAMLConfig(configPath, &settingsCopy)
}

// SaveYAMLConfig writes settings to configPath atomically.
// Comments and ordering from the previous file are not preserved.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := MarshalYAML(settings)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), dirPermissions); err != nil {
		return errors.FileError(err, configPath, 0)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Chmod(filePermission); err != nil {
		tempFile.Close()
		return fmt.Errorf("error setting config file permissions: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return errors.FileError(fmt.Errorf("error replacing config file: %w", err), configPath, int64(len(yamlData)))
	}

	return nil
}

// MarshalYAML renders settings in the config file layout.
func MarshalYAML(settings *Settings) ([]byte, error) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "marshal_settings").
			Build()
	}
	return data, nil
}

func (s *Settings) expandPaths() {
	s.Capture.StagingDir = ExpandPath(s.Capture.StagingDir)
	s.Storage.Path = ExpandPath(s.Storage.Path)
	s.Metrics.TextFile = ExpandPath(s.Metrics.TextFile)
	if s.Logging.FileOutput != nil {
		s.Logging.FileOutput.Path = ExpandPath(s.Logging.FileOutput.Path)
	}
}

const redacted = "[REDACTED]"

// Redacted returns a copy of settings safe to print.
func (s *Settings) Redacted() *Settings {
	c := *s
	if c.Telemetry.DSN != "" {
		c.Telemetry.DSN = redacted
	}
	if c.Storage.DSN != "" {
		c.Storage.DSN = redacted
	}
	if len(c.Notify.URLs) > 0 {
		urls := make([]string, len(c.Notify.URLs))
		for i := range urls {
			urls[i] = redacted
		}
		c.Notify.URLs = urls
	}
	return &c
}
