// Package config loads the CLI configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIBaseURL is used when neither the config file nor the
	// environment overrides the API location.
	DefaultAPIBaseURL = "http://localhost:8080/api"

	// EnvAPIBaseURL overrides the configured base URL when set. It wins
	// over the config file.
	EnvAPIBaseURL = "STOCKTRACKER_API_URL"
)

// Config holds the CLI configuration.
type Config struct {
	APIBaseURL string `yaml:"api_base_url"`
}

// Load reads the configuration from the given path. A missing file is not
// an error: defaults are returned. Fields absent from the file fall back
// to defaults, and the STOCKTRACKER_API_URL environment variable overrides
// the base URL from either source.
func Load(path string) (*Config, error) {
	cfg := &Config{
		APIBaseURL: DefaultAPIBaseURL,
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
		if cfg.APIBaseURL == "" {
			cfg.APIBaseURL = DefaultAPIBaseURL
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if envURL := os.Getenv(EnvAPIBaseURL); envURL != "" {
		cfg.APIBaseURL = envURL
	}

	return cfg, nil
}

// Save writes the configuration to the given path, creating parent
// directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/stocktracker.
func ConfigPath() string {
	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "stocktracker")
	} else {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config", "stocktracker")
	}
	return filepath.Join(configDir, "config.yaml")
}
