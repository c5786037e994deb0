package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/csemanager/internal/flagx"
	"github.com/dmitrijs2005/csemanager/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	DataDir        string         `json:"data_dir"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
