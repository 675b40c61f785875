package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultListenAddr is used when bridge.yml omits the listen address.
const DefaultListenAddr = ":8377"

// DefaultPath is where serve looks for a config file when --config is
// not given. A missing file at this path falls back to Default().
const DefaultPath = "bridge.yml"

// BridgeConfig represents the top-level bridge.yml configuration
type BridgeConfig struct {
	Version  string    `yaml:"version"`
	Listen   string    `yaml:"listen,omitempty"`   // Address the HTTP server binds to
	Instance string    `yaml:"instance,omitempty"` // Name stamped on log lines and event streams
	Log      LogConfig `yaml:"log,omitempty"`
}

// LogConfig specifies structured logging behaviour
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, or error (default: info)
	Format string `yaml:"format,omitempty"` // text or json (default: text)
}

// Default returns the configuration used when no bridge.yml exists.
func Default() *BridgeConfig {
	return &BridgeConfig{
		Version:  "1.0",
		Listen:   DefaultListenAddr,
		Instance: "bridge",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate performs strict validation on the configuration and fills
// in defaults for omitted fields.
func (c *BridgeConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Listen == "" {
		c.Listen = DefaultListenAddr
	}

	if c.Instance == "" {
		c.Instance = "bridge"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", c.Log.Level)
	}

	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	return nil
}

// Load reads and validates bridge.yml from the specified path
func Load(path string) (*BridgeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config BridgeConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads the config file at path if it exists and falls
// back to Default() if it does not. Any other failure (unreadable
// file, bad YAML, failed validation) is an error.
func LoadOrDefault(path string) (*BridgeConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
