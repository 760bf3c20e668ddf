package config

import (
	"fmt"
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKMAN_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("TASKMAN_STORE_URI"); v != "" {
		cfg.Store.URI = v
	}
	if v := os.Getenv("TASKMAN_DB"); v != "" {
		cfg.Store.Database = v
	}
	if v := os.Getenv("TASKMAN_COLLECTION"); v != "" {
		cfg.Store.Collection = v
	}
	if v := os.Getenv("TASKMAN_TIMEOUT"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.Store.TimeoutSeconds = i
		}
	}
	if v := os.Getenv("TASKMAN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TASKMAN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TASKMAN_LOG_TIMESTAMPS"); v != "" {
		cfg.Log.Timestamps = boolFromString(v)
	}
	if v := os.Getenv("TASKMAN_LOG_CALLER"); v != "" {
		cfg.Log.Caller = boolFromString(v)
	}
	if v := os.Getenv("TASKMAN_HISTORY"); v != "" {
		cfg.History = boolFromString(v)
	}
	if v := os.Getenv("TASKMAN_HISTORY_DIR"); v != "" {
		cfg.HistoryDir = v
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
