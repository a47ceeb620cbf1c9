// Package config resolves runtime settings from defaults, an optional YAML
// file and DEEPSEA_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means store.DefaultDBPath.
	DBPath string `yaml:"db_path"`

	// InMemory disables the persistence medium; state does not survive
	// a restart.
	InMemory bool `yaml:"in_memory"`

	// CatalogPath optionally replaces the embedded catalog.
	CatalogPath string `yaml:"catalog_path"`

	Log LogConfig `yaml:"log"`

	// ClockInterval is how often the header clock refreshes. Default: 60s.
	ClockInterval time.Duration `yaml:"clock_interval"`

	// SelfTest toggles the one-shot diagnostic after the first render.
	SelfTest bool `yaml:"self_test"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Path  string `yaml:"path"`  // file path, "stderr" or "discard"; empty means logging.DefaultLogPath
	Level string `yaml:"level"` // Default: "info"
	Env   string `yaml:"env"`   // "development" or "production"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
			Env:   "development",
		},
		ClockInterval: 60 * time.Second,
		SelfTest:      true,
	}
}

// ConfigFromEnv builds a Config from a YAML file and the environment,
// falling back to defaults. The file is path when given, otherwise
// DEEPSEA_CONFIG; environment variables override it.
func ConfigFromEnv(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("DEEPSEA_CONFIG")
	}
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if p := os.Getenv("DEEPSEA_DB"); p != "" {
		cfg.DBPath = p
	}
	if v := os.Getenv("DEEPSEA_IN_MEMORY"); v == "1" || v == "true" {
		cfg.InMemory = true
	}
	if p := os.Getenv("DEEPSEA_CATALOG"); p != "" {
		cfg.CatalogPath = p
	}
	if p := os.Getenv("DEEPSEA_LOG"); p != "" {
		cfg.Log.Path = p
	}
	if l := os.Getenv("DEEPSEA_LOG_LEVEL"); l != "" {
		cfg.Log.Level = l
	}
	if e := os.Getenv("DEEPSEA_ENV"); e != "" {
		cfg.Log.Env = e
	}
	if d := os.Getenv("DEEPSEA_CLOCK_INTERVAL"); d != "" {
		interval, err := time.ParseDuration(d)
		if err != nil {
			return Config{}, fmt.Errorf("parse DEEPSEA_CLOCK_INTERVAL: %w", err)
		}
		cfg.ClockInterval = interval
	}
	if v := os.Getenv("DEEPSEA_SELF_TEST"); v == "0" || v == "false" {
		cfg.SelfTest = false
	}

	return cfg, nil
}

// MergeFile overlays the fields set in a YAML file onto c.
func (c *Config) MergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// Validate checks the values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.ClockInterval <= 0 {
		return fmt.Errorf("clock_interval must be positive, got %s", c.ClockInterval)
	}
	switch c.Log.Env {
	case "", "development", "production":
	default:
		return fmt.Errorf("unknown log env: %q", c.Log.Env)
	}
	return nil
}
