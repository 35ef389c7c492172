package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ".", cfg.Storage.Dir)
	assert.Equal(t, "tasks.txt", cfg.Storage.Filename)
	assert.Equal(t, BackendFlatFile, cfg.Storage.Backend)
	assert.Equal(t, "delimited", cfg.Storage.Format)
	assert.Equal(t, IDPolicyMonotonic, cfg.Storage.IDPolicy)
	assert.False(t, cfg.Storage.SkipMalformed)
	assert.Equal(t, uint32(0644), cfg.Storage.FilePermissions)
	assert.Equal(t, uint32(0755), cfg.Storage.DirPermissions)
	assert.Equal(t, 255, cfg.Validation.TitleMaxLength)
	assert.Equal(t, 70, cfg.Display.RuleWidth)
	assert.Equal(t, 60*time.Second, cfg.GetTimeout())
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_GetStoragePath(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Dir = "/var/lib/tasks"
	assert.Equal(t, filepath.Join("/var/lib/tasks", "tasks.txt"), cfg.GetStoragePath())

	cfg.Storage.Backend = BackendSQLite
	assert.Equal(t, filepath.Join("/var/lib/tasks", "tasks.db"), cfg.GetStoragePath())

	cfg.Storage.Filename = "todo.sqlite"
	assert.Equal(t, filepath.Join("/var/lib/tasks", "todo.sqlite"), cfg.GetStoragePath())
}

func TestConfig_LoadFromEnvironment(t *testing.T) {
	t.Setenv("TASKS_DIR", "/tmp/tasks")
	t.Setenv("TASKS_FILENAME", "todo.txt")
	t.Setenv("TASKS_BACKEND", "sqlite")
	t.Setenv("TASKS_FORMAT", "yaml")
	t.Setenv("TASKS_ID_POLICY", "sequential")
	t.Setenv("TASKS_SKIP_MALFORMED", "true")
	t.Setenv("TASKS_FILE_PERMISSIONS", "600")
	t.Setenv("TASKS_DIR_PERMISSIONS", "700")
	t.Setenv("TASKS_TITLE_MAX", "40")
	t.Setenv("TASKS_RULE_WIDTH", "80")
	t.Setenv("TASKS_APP_TIMEOUT", "5s")
	t.Setenv("TASKS_LOG_LEVEL", "debug")
	t.Setenv("TASKS_LOG_FORMAT", "json")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, "/tmp/tasks", cfg.Storage.Dir)
	assert.Equal(t, "todo.txt", cfg.Storage.Filename)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "yaml", cfg.Storage.Format)
	assert.Equal(t, IDPolicySequential, cfg.Storage.IDPolicy)
	assert.True(t, cfg.Storage.SkipMalformed)
	assert.Equal(t, uint32(0600), cfg.Storage.FilePermissions)
	assert.Equal(t, uint32(0700), cfg.Storage.DirPermissions)
	assert.Equal(t, 40, cfg.Validation.TitleMaxLength)
	assert.Equal(t, 80, cfg.Display.RuleWidth)
	assert.Equal(t, 5*time.Second, cfg.GetTimeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestConfig_LoadFromEnvironment_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("TASKS_SKIP_MALFORMED", "maybe")
	t.Setenv("TASKS_RULE_WIDTH", "wide")
	t.Setenv("TASKS_APP_TIMEOUT", "soon")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())
	assert.False(t, cfg.Storage.SkipMalformed)
	assert.Equal(t, 70, cfg.Display.RuleWidth)
	assert.Equal(t, 60*time.Second, cfg.GetTimeout())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"empty dir", func(c *Config) { c.Storage.Dir = "" }, "storage.dir"},
		{"empty filename", func(c *Config) { c.Storage.Filename = "" }, "storage.filename"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }, "storage.backend"},
		{"unknown format", func(c *Config) { c.Storage.Format = "xml" }, "storage.format"},
		{"unknown id policy", func(c *Config) { c.Storage.IDPolicy = "uuid" }, "storage.id_policy"},
		{"zero file permissions", func(c *Config) { c.Storage.FilePermissions = 0 }, "storage.file_permissions"},
		{"zero title length", func(c *Config) { c.Validation.TitleMaxLength = 0 }, "validation.title_max_length"},
		{"narrow rule", func(c *Config) { c.Display.RuleWidth = 5 }, "display.rule_width"},
		{"zero timeout", func(c *Config) { c.Application.Timeout.Duration = 0 }, "application.timeout"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("ninety")))
}
