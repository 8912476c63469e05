// Package config loads and saves ~/.powerplan/config.yaml.
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

const fileName = "config.yaml"

// Config is the user-editable settings file.
type Config struct {
	Language       string   `yaml:"language"`
	LocalesDir     string   `yaml:"locales_dir,omitempty"`
	CommandTimeout Duration `yaml:"command_timeout"` // bounds every tool call; 0 waits forever
	ConfirmDelete  bool     `yaml:"confirm_delete"`
	Log            Log      `yaml:"log"`
}

type Log struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir,omitempty"`
	Level   string `yaml:"level"`
}

// Duration is a time.Duration written as "30s" in YAML.
type Duration time.Duration

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", s)
	}
	*d = Duration(v)
	return nil
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		Language:      "en_US",
		ConfirmDelete: true,
		Log: Log{
			Level: "info",
		},
	}
}

// Dir is the per-user settings directory, ~/.powerplan.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("USERPROFILE")
		if home == "" {
			home = "."
		}
	}
	return filepath.Join(home, ".powerplan")
}

// DefaultPath is Dir()/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), fileName)
}

// Load reads path; a missing file yields Default() and no error. Fields absent
// from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Timeout is CommandTimeout as a time.Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.CommandTimeout)
}
