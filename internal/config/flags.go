package config

import "flag"

// parseFlags defines and parses CLI flags. Flags override every other
// source.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskman", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Store.Driver, "driver", cfg.Store.Driver, "Store driver (mongo, memory)")
	fs.StringVar(&cfg.Store.URI, "uri", cfg.Store.URI, "MongoDB connection URI")
	fs.StringVar(&cfg.Store.Database, "db", cfg.Store.Database, "Database name")
	fs.StringVar(&cfg.Store.Collection, "collection", cfg.Store.Collection, "Collection name")
	fs.IntVar(&cfg.Store.TimeoutSeconds, "timeout", cfg.Store.TimeoutSeconds, "Connection timeout (seconds)")

	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.Log.Timestamps, "log-timestamps", cfg.Log.Timestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.Log.Caller, "log-caller", cfg.Log.Caller, "Show caller location in logs")

	fs.BoolVar(&cfg.History, "history", cfg.History, "Record mutating operations to the history log")
	fs.StringVar(&cfg.HistoryDir, "history-dir", cfg.HistoryDir, "History log directory")

	return fs.Parse(args)
}
