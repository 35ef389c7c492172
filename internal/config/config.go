package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Storage backends
const (
	BackendFlatFile = "flatfile"
	BackendSQLite   = "sqlite"
)

// ID assignment policies
const (
	IDPolicyMonotonic  = "monotonic"
	IDPolicySequential = "sequential"
)

// Config holds all configuration options for the task tracker
type Config struct {
	Storage     StorageConfig     `toml:"storage"`
	Validation  ValidationConfig  `toml:"validation"`
	Display     DisplayConfig     `toml:"display"`
	Application ApplicationConfig `toml:"application"`
	Logging     LoggingConfig     `toml:"logging"`
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	Dir             string `toml:"dir" env:"TASKS_DIR"`
	Filename        string `toml:"filename" env:"TASKS_FILENAME"`
	Backend         string `toml:"backend" env:"TASKS_BACKEND"`
	Format          string `toml:"format" env:"TASKS_FORMAT"`
	IDPolicy        string `toml:"id_policy" env:"TASKS_ID_POLICY"`
	SkipMalformed   bool   `toml:"skip_malformed" env:"TASKS_SKIP_MALFORMED"`
	FilePermissions uint32 `toml:"file_permissions" env:"TASKS_FILE_PERMISSIONS"`
	DirPermissions  uint32 `toml:"dir_permissions" env:"TASKS_DIR_PERMISSIONS"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength int `toml:"title_max_length" env:"TASKS_TITLE_MAX"`
}

// DisplayConfig holds listing layout configuration
type DisplayConfig struct {
	RuleWidth int `toml:"rule_width" env:"TASKS_RULE_WIDTH"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout Duration `toml:"timeout" env:"TASKS_APP_TIMEOUT"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `toml:"level" env:"TASKS_LOG_LEVEL"`
	Format string `toml:"format" env:"TASKS_LOG_FORMAT"`
}

// Duration wraps time.Duration so it can be written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir:             ".",
			Filename:        DefaultFilename,
			Backend:         BackendFlatFile,
			Format:          "delimited",
			IDPolicy:        IDPolicyMonotonic,
			SkipMalformed:   false,
			FilePermissions: 0644,
			DirPermissions:  0755,
		},
		Validation: ValidationConfig{
			TitleMaxLength: 255,
		},
		Display: DisplayConfig{
			RuleWidth: 70,
		},
		Application: ApplicationConfig{
			Timeout: Duration{60 * time.Second},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Default backing file names
const (
	DefaultFilename         = "tasks.txt"
	DefaultDatabaseFilename = "tasks.db"
)

// GetStoragePath returns the full path to the backing file. The SQLite
// backend uses tasks.db unless a filename was chosen explicitly.
func (c *Config) GetStoragePath() string {
	name := c.Storage.Filename
	if c.Storage.Backend == BackendSQLite && name == DefaultFilename {
		name = DefaultDatabaseFilename
	}
	return filepath.Join(c.Storage.Dir, name)
}

// GetTimeout returns the application timeout
func (c *Config) GetTimeout() time.Duration {
	return c.Application.Timeout.Duration
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if dir := os.Getenv("TASKS_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("TASKS_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if backend := os.Getenv("TASKS_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if format := os.Getenv("TASKS_FORMAT"); format != "" {
		c.Storage.Format = format
	}
	if policy := os.Getenv("TASKS_ID_POLICY"); policy != "" {
		c.Storage.IDPolicy = policy
	}
	if skip := os.Getenv("TASKS_SKIP_MALFORMED"); skip != "" {
		c.Storage.SkipMalformed = ParseBoolWithFallback(skip, c.Storage.SkipMalformed)
	}
	if perms := os.Getenv("TASKS_FILE_PERMISSIONS"); perms != "" {
		c.Storage.FilePermissions = ParseUint32WithFallback(perms, 8, c.Storage.FilePermissions)
	}
	if perms := os.Getenv("TASKS_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Validation configuration
	if maxLen := os.Getenv("TASKS_TITLE_MAX"); maxLen != "" {
		if n, err := strconv.Atoi(maxLen); err == nil {
			c.Validation.TitleMaxLength = n
		}
	}

	// Display configuration
	if width := os.Getenv("TASKS_RULE_WIDTH"); width != "" {
		c.Display.RuleWidth = ParseIntWithFallback(width, c.Display.RuleWidth)
	}

	// Application configuration
	if timeout := os.Getenv("TASKS_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout.Duration = ParseDurationWithFallback(timeout, c.Application.Timeout.Duration)
	}

	// Logging configuration
	if level := os.Getenv("TASKS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TASKS_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.Filename == "" {
		return &ConfigError{Field: "storage.filename", Message: "storage filename cannot be empty"}
	}
	switch c.Storage.Backend {
	case BackendFlatFile, BackendSQLite:
	default:
		return &ConfigError{Field: "storage.backend", Message: "backend must be flatfile or sqlite"}
	}
	switch c.Storage.Format {
	case "delimited", "csv", "yaml":
	default:
		return &ConfigError{Field: "storage.format", Message: "format must be delimited, csv or yaml"}
	}
	switch c.Storage.IDPolicy {
	case IDPolicyMonotonic, IDPolicySequential:
	default:
		return &ConfigError{Field: "storage.id_policy", Message: "id policy must be monotonic or sequential"}
	}
	if c.Storage.FilePermissions == 0 {
		return &ConfigError{Field: "storage.file_permissions", Message: "file permissions cannot be zero"}
	}

	// Validate validation configuration
	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}

	// Validate display configuration
	if c.Display.RuleWidth < 10 {
		return &ConfigError{Field: "display.rule_width", Message: "rule width must be at least 10"}
	}

	// Validate application configuration
	if c.Application.Timeout.Duration <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	// Validate logging configuration
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return &ConfigError{Field: "logging.level", Message: "unknown log level"}
	}
	switch c.Logging.Format {
	case "text", "json", "logfmt":
	default:
		return &ConfigError{Field: "logging.format", Message: "log format must be text, json or logfmt"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
