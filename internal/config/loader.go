package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"task-tracker/internal/logging"
)

// DefaultConfigFile is read from the working directory when no other file is named.
const DefaultConfigFile = "tasks.toml"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// WithConfigFile names an explicit TOML file. A named file must exist.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML config file, if any
// 3. Override with environment variables
// 4. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// resolveConfigFile picks the file to read and whether it must exist.
func (l *Loader) resolveConfigFile() (string, bool) {
	if l.configFile != "" {
		return l.configFile, true
	}
	if path := os.Getenv("TASKS_CONFIG"); path != "" {
		return path, true
	}
	return DefaultConfigFile, false
}

func (l *Loader) loadFile() error {
	path, required := l.resolveConfigFile()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			logging.Debugln("config: no config file, using defaults and environment")
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, l.config); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	logging.Debugf("config: loaded %s\n", path)
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	Dir           *string
	Filename      *string
	Backend       *string
	Format        *string
	IDPolicy      *string
	SkipMalformed *bool

	// Validation overrides
	TitleMaxLength *int

	// Display overrides
	RuleWidth *int

	// Application overrides
	Timeout *time.Duration

	// Logging overrides
	LogLevel  *string
	LogFormat *string
}

// Apply applies the overrides to an already loaded configuration and re-validates it
func (o *ConfigOverrides) Apply(config *Config) error {
	applyOverrides(config, o)
	return config.Validate()
}

// applyOverrides applies command line overrides to the configuration
func applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Storage overrides
	if overrides.Dir != nil {
		config.Storage.Dir = *overrides.Dir
	}
	if overrides.Filename != nil {
		config.Storage.Filename = *overrides.Filename
	}
	if overrides.Backend != nil {
		config.Storage.Backend = *overrides.Backend
	}
	if overrides.Format != nil {
		config.Storage.Format = *overrides.Format
	}
	if overrides.IDPolicy != nil {
		config.Storage.IDPolicy = *overrides.IDPolicy
	}
	if overrides.SkipMalformed != nil {
		config.Storage.SkipMalformed = *overrides.SkipMalformed
	}

	// Validation overrides
	if overrides.TitleMaxLength != nil {
		config.Validation.TitleMaxLength = *overrides.TitleMaxLength
	}

	// Display overrides
	if overrides.RuleWidth != nil {
		config.Display.RuleWidth = *overrides.RuleWidth
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout.Duration = *overrides.Timeout
	}

	// Logging overrides
	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		config.Logging.Format = *overrides.LogFormat
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
