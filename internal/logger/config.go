package logger

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	DefaultLevel string            `yaml:"defaultlevel" mapstructure:"defaultlevel"` // default level for all modules
	Timezone     string            `yaml:"timezone" mapstructure:"timezone"`         // "Local", "UTC" or an IANA name
	Console      *ConsoleOutput    `yaml:"console" mapstructure:"console"`
	FileOutput   *FileOutput       `yaml:"file" mapstructure:"file"`
	ModuleLevels map[string]string `yaml:"modulelevels" mapstructure:"modulelevels"` // per-module overrides
}

// ConsoleOutput represents console logging configuration.
// Console output goes to stderr so command output on stdout stays parseable.
type ConsoleOutput struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Level   string `yaml:"level" mapstructure:"level"`
}

// FileOutput represents file logging configuration.
// File output is JSON with RFC3339 timestamps.
type FileOutput struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	Path       string `yaml:"path" mapstructure:"path"`
	Level      string `yaml:"level" mapstructure:"level"`
	MaxSize    int    `yaml:"maxsize" mapstructure:"maxsize"`       // megabytes before rotation
	MaxAge     int    `yaml:"maxage" mapstructure:"maxage"`         // days to keep rotated files
	MaxBackups int    `yaml:"maxbackups" mapstructure:"maxbackups"` // rotated files to keep
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// Default values for logging configuration.
const (
	DefaultLogLevel   = "info"
	DefaultLogPath    = "logs/sayah.log"
	DefaultMaxSize    = 10
	DefaultMaxAge     = 30
	DefaultMaxBackups = 3
)

// applyConfigDefaults fills nil sections so a partial config still logs somewhere.
// The CLI is interactive, so the console only shows warnings unless asked for more.
func applyConfigDefaults(cfg *LoggingConfig) {
	if cfg == nil {
		return
	}

	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = DefaultLogLevel
	}

	if cfg.Console == nil {
		cfg.Console = &ConsoleOutput{
			Enabled: true,
			Level:   string(LogLevelWarn),
		}
	}

	if cfg.FileOutput == nil {
		cfg.FileOutput = &FileOutput{
			Enabled: false,
			Path:    DefaultLogPath,
			Level:   DefaultLogLevel,
		}
	}

	if cfg.FileOutput.MaxSize <= 0 {
		cfg.FileOutput.MaxSize = DefaultMaxSize
	}
	if cfg.FileOutput.MaxAge <= 0 {
		cfg.FileOutput.MaxAge = DefaultMaxAge
	}
	if cfg.FileOutput.MaxBackups <= 0 {
		cfg.FileOutput.MaxBackups = DefaultMaxBackups
	}
}
