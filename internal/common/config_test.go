package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "npx", config.Harness.Command)
	assert.Equal(t, []string{"playwright", "test"}, config.Harness.Args)
	assert.Equal(t, 0.8, config.Healing.ConfidenceThreshold)
	assert.Equal(t, 0.1, config.Visual.Threshold)
	assert.Equal(t, "file", config.Storage.Type)
	assert.Equal(t, 20, config.Analysis.HistorySize)
	require.NoError(t, config.Validate())
}

func TestLoadFromFiles_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vigil.toml")
	content := `
environment = "production"

[harness]
command = "pnpm"
args = ["exec", "playwright", "test"]
workers = 8
timeout = "45s"

[healing]
auto_apply = true
confidence_threshold = 0.9

[storage]
type = "badger"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)
	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "pnpm", config.Harness.Command)
	assert.Equal(t, 8, config.Harness.Workers)
	assert.Equal(t, 45*time.Second, config.Harness.TestTimeout())
	assert.True(t, config.Healing.AutoApply)
	assert.Equal(t, 0.9, config.Healing.ConfidenceThreshold)
	assert.Equal(t, "badger", config.Storage.Type)

	// Untouched sections keep their defaults.
	assert.Equal(t, 0.1, config.Visual.Threshold)
	assert.Equal(t, "5m", config.Analysis.SlowRunThreshold)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")
	require.NoError(t, os.WriteFile(base, []byte("[harness]\nworkers = 2\n"), 0644))
	require.NoError(t, os.WriteFile(local, []byte("[harness]\nworkers = 6\n"), 0644))

	config, err := LoadFromFiles(base, local)
	require.NoError(t, err)
	assert.Equal(t, 6, config.Harness.Workers)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty command", mutate: func(c *Config) { c.Harness.Command = "" }},
		{name: "negative workers", mutate: func(c *Config) { c.Harness.Workers = -1 }},
		{name: "threshold over one", mutate: func(c *Config) { c.Healing.ConfidenceThreshold = 1.5 }},
		{name: "unknown storage type", mutate: func(c *Config) { c.Storage.Type = "redis" }},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestHarnessConfig_TestTimeout(t *testing.T) {
	h := HarnessConfig{}
	assert.Zero(t, h.TestTimeout())

	h.Timeout = "90s"
	assert.Equal(t, 90*time.Second, h.TestTimeout())

	h.Timeout = "garbage"
	assert.Zero(t, h.TestTimeout())
}

func TestParseDurationOr(t *testing.T) {
	assert.Equal(t, time.Minute, ParseDurationOr("", time.Minute))
	assert.Equal(t, time.Minute, ParseDurationOr("bogus", time.Minute))
	assert.Equal(t, 3*time.Second, ParseDurationOr("3s", time.Minute))
}
