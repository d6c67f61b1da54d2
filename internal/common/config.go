package common

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Harness     HarnessConfig  `toml:"harness"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Healing     HealingConfig  `toml:"healing"`
	Visual      VisualConfig   `toml:"visual"`
	Storage     StorageConfig  `toml:"storage"`
	Monitor     MonitorConfig  `toml:"monitor"`
	Logging     LoggingConfig  `toml:"logging"`
}

// HarnessConfig describes how to invoke the external test harness.
type HarnessConfig struct {
	Command    string   `toml:"command" validate:"required"` // e.g. "npx"
	Args       []string `toml:"args"`                        // leading args, e.g. ["playwright", "test"]
	WorkDir    string   `toml:"work_dir"`                    // directory the harness runs in
	ResultsDir string   `toml:"results_dir"`                 // well-known results directory
	Workers    int      `toml:"workers" validate:"gte=0"`
	Retries    int      `toml:"retries" validate:"gte=0"`
	Timeout    string   `toml:"timeout"` // per-test timeout, duration string
	Reporter   string   `toml:"reporter"`
}

// TestTimeout returns the parsed per-test timeout, zero when unset.
func (h *HarnessConfig) TestTimeout() time.Duration {
	if h.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(h.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// AnalysisConfig tunes the failure analyzer thresholds.
type AnalysisConfig struct {
	SlowRunThreshold string `toml:"slow_run_threshold"`            // duration above which a run is a performance finding
	FastRunThreshold string `toml:"fast_run_threshold"`            // duration at or below which performance scores 100
	HistorySize      int    `toml:"history_size" validate:"gte=0"` // runs retained by the health monitor
}

// HealingConfig tunes the selector healing engine.
type HealingConfig struct {
	Enabled             bool    `toml:"enabled"`
	AutoApply           bool    `toml:"auto_apply"`
	ConfidenceThreshold float64 `toml:"confidence_threshold" validate:"gte=0,lte=1"`
	ProbeTimeout        string  `toml:"probe_timeout"`
}

// VisualConfig tunes the visual comparator.
type VisualConfig struct {
	BaselineDir     string  `toml:"baseline_dir"`
	DiffDir         string  `toml:"diff_dir"`
	Threshold       float64 `toml:"threshold" validate:"gte=0,lte=100"` // max diff percentage
	UpdateBaselines bool    `toml:"update_baselines"`
}

// StorageConfig selects the mapping store backend.
type StorageConfig struct {
	Type         string `toml:"type" validate:"omitempty,oneof=file badger"`
	MappingsPath string `toml:"mappings_path"` // JSON file used by the file backend
	BadgerPath   string `toml:"badger_path"`   // database directory used by the badger backend
}

// MonitorConfig configures the periodic health monitor.
type MonitorConfig struct {
	Schedule string `toml:"schedule"` // cron expression; empty disables the monitor
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// DefaultConfig returns the built-in defaults applied before any file load.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Harness: HarnessConfig{
			Command:    "npx",
			Args:       []string{"playwright", "test"},
			ResultsDir: "test-results",
			Reporter:   "json",
		},
		Analysis: AnalysisConfig{
			SlowRunThreshold: "5m",
			FastRunThreshold: "1m",
			HistorySize:      20,
		},
		Healing: HealingConfig{
			Enabled:             true,
			AutoApply:           false,
			ConfidenceThreshold: 0.8,
			ProbeTimeout:        "2s",
		},
		Visual: VisualConfig{
			BaselineDir: "visual-baselines",
			DiffDir:     "visual-diffs",
			Threshold:   0.1,
		},
		Storage: StorageConfig{
			Type:         "file",
			MappingsPath: "selector-mappings.json",
			BadgerPath:   "data/vigil.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration in priority order: defaults, then each
// file in sequence (later files override earlier ones). A missing path is an
// error; call with no paths to get defaults only.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration against struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ParseDurationOr parses a duration string, returning fallback on empty or
// malformed input.
func ParseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
