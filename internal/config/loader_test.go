package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoader_ConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
[storage]
dir = "/srv/tasks"
format = "csv"
id_policy = "sequential"
file_permissions = 0o600

[display]
rule_width = 90

[application]
timeout = "15s"

[logging]
level = "info"
`)

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/tasks", cfg.Storage.Dir)
	assert.Equal(t, "csv", cfg.Storage.Format)
	assert.Equal(t, IDPolicySequential, cfg.Storage.IDPolicy)
	assert.Equal(t, uint32(0600), cfg.Storage.FilePermissions)
	assert.Equal(t, 90, cfg.Display.RuleWidth)
	assert.Equal(t, 15*time.Second, cfg.GetTimeout())
	assert.Equal(t, "info", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "tasks.txt", cfg.Storage.Filename)
}

func TestLoader_EnvironmentBeatsFile(t *testing.T) {
	path := writeConfigFile(t, "[storage]\nformat = \"csv\"\n")
	t.Setenv("TASKS_CONFIG", path)
	t.Setenv("TASKS_FORMAT", "yaml")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Storage.Format)
}

func TestLoader_DefaultFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("[display]\nrule_width = 40\n"), 0644))
	chdir(t, dir)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Display.RuleWidth)
}

func TestLoader_MissingNamedFile(t *testing.T) {
	_, err := NewLoader().WithConfigFile(filepath.Join(t.TempDir(), "nope.toml")).Load()
	assert.Error(t, err)
}

func TestLoader_InvalidFile(t *testing.T) {
	path := writeConfigFile(t, "[storage\nformat = ")
	_, err := NewLoader().WithConfigFile(path).Load()
	assert.Error(t, err)

	path = writeConfigFile(t, "[storage]\nbackend = \"postgres\"\n")
	_, err = NewLoader().WithConfigFile(path).Load()
	var configErr *ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestLoader_LoadThenApplyOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TASKS_FORMAT", "yaml")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Storage.Format)

	format := "csv"
	skip := true
	timeout := 3 * time.Second
	require.NoError(t, (&ConfigOverrides{
		Format:        &format,
		SkipMalformed: &skip,
		Timeout:       &timeout,
	}).Apply(cfg))
	assert.Equal(t, "csv", cfg.Storage.Format)
	assert.True(t, cfg.Storage.SkipMalformed)
	assert.Equal(t, timeout, cfg.GetTimeout())

	bad := "xml"
	assert.Error(t, (&ConfigOverrides{Format: &bad}).Apply(cfg))
}

func TestConfigOverrides_Apply(t *testing.T) {
	cfg := NewConfig()
	dir := "/data"
	level := "debug"
	width := 100
	require.NoError(t, (&ConfigOverrides{Dir: &dir, LogLevel: &level, RuleWidth: &width}).Apply(cfg))
	assert.Equal(t, "/data", cfg.Storage.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 100, cfg.Display.RuleWidth)

	zero := 0
	assert.Error(t, (&ConfigOverrides{TitleMaxLength: &zero}).Apply(cfg))
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDurationWithFallback("5s", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("x", time.Second))
	assert.Equal(t, 7, ParseIntWithFallback("7", 1))
	assert.Equal(t, 1, ParseIntWithFallback("seven", 1))
	assert.True(t, ParseBoolWithFallback("yes", true))
	assert.False(t, ParseBoolWithFallback("0", true))
	assert.Equal(t, uint32(0640), ParseUint32WithFallback("640", 8, 0))
	assert.Equal(t, uint32(0644), ParseUint32WithFallback("rw-r--r--", 8, 0644))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
