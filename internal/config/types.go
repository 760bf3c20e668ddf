// Package config handles configuration loading and defaults.
package config

// Default values.
const (
	DefaultStoreDriver    = "mongo"
	DefaultStoreURI       = "mongodb://localhost:27017"
	DefaultDatabase       = "task_management"
	DefaultCollection     = "tasks"
	DefaultTimeoutSeconds = 5
	DefaultHistoryDir     = "~/.taskman/history"
)

// Config holds the full configuration for taskman.
type Config struct {
	Store StoreConfig `toml:"store"`
	Log   LogConfig   `toml:"log"`

	// History of mutating operations, written as JSONL.
	History    bool   `toml:"history"`
	HistoryDir string `toml:"history_dir"`
}

// StoreConfig selects and parameterizes the persistence backend.
type StoreConfig struct {
	// Driver is "mongo" or "memory".
	Driver         string `toml:"driver"`
	URI            string `toml:"uri"`
	Database       string `toml:"database"`
	Collection     string `toml:"collection"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Timestamps bool   `toml:"timestamps"`
	Caller     bool   `toml:"caller"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Store.Driver = DefaultStoreDriver
	cfg.Store.URI = DefaultStoreURI
	cfg.Store.Database = DefaultDatabase
	cfg.Store.Collection = DefaultCollection
	cfg.Store.TimeoutSeconds = DefaultTimeoutSeconds

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"

	cfg.History = true
	cfg.HistoryDir = DefaultHistoryDir
}
