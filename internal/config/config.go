// Package config loads the client configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "STOREFRONT_CONFIG"

type Config struct {
	// BaseURL is the API root, including the /api prefix.
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds bounds each request; 0 keeps the default.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// PageSize mirrors the server's listing page size and is used by
	// views to derive page counts.
	PageSize int `yaml:"page_size"`
	// SessionFile overrides where the identity cache is stored.
	SessionFile string `yaml:"session_file"`
}

func Defaults() Config {
	return Config{
		BaseURL:        "http://localhost:8000/api",
		TimeoutSeconds: 30,
		PageSize:       9,
	}
}

func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads the config at path; an empty path falls back to the
// STOREFRONT_CONFIG environment variable, and if that is unset too the
// defaults are returned as-is.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("config: %s: base_url is required", path)
	}
	return cfg, nil
}
