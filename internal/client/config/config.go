package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API, without trailing slash.
//   - DataDir: directory of the local SQLite session cache.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerURL      string
	DataDir        string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DataDir = ".csemanager"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config from args: defaults, then JSON, then flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server url must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive, got %s", cfg.RequestTimeout)
	}
	return cfg, nil
}
