package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file on top of the defaults.
// ${VAR} references are expanded from the environment before parsing.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = substituteEnvVars(data)

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Resolve returns the defaults when path is empty and Load(path) otherwise.
func Resolve(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// LoadOrDefault is Resolve without the error: an unreadable or invalid file yields the defaults.
func LoadOrDefault(path string) *Config {
	cfg, err := Resolve(path)
	if err != nil {
		return Default()
	}
	return cfg
}
