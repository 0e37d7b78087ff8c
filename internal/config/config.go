// Package config handles configuration loading from YAML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds dashboard configuration.
type Config struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	LogLevel        string        `yaml:"log_level"`
	LogFile         string        `yaml:"log_file"`
	HistoryLines    int           `yaml:"history_lines"`
}

// DefaultConfigPath is the default location for the config file.
const DefaultConfigPath = "~/.config/sockmon/sockmon.yaml"

// Load reads configuration from a YAML file. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDefault reads DefaultConfigPath, falling back to Defaults when the file
// does not exist.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// Defaults returns a config with default values.
func Defaults() *Config {
	return &Config{
		RefreshInterval: 2 * time.Second,
		LogLevel:        "info",
		LogFile:         "",
		HistoryLines:    200,
	}
}

// Validate checks the refresh interval and log level.
func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// ExpandedLogFile returns LogFile with a leading ~ resolved.
func (c *Config) ExpandedLogFile() string {
	return expandHome(c.LogFile)
}

func expandHome(path string) string {
	// Expand ~ to home directory
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}
	return path
}
