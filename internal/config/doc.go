// Package config loads runtime configuration for the txviewer CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   SQLite database path
//	-t int      session timeout (minutes)
//	-p int      session poll interval (seconds)
//	-n int      history page size
//	-s int      mock transactions to seed into an empty database
//	-m int      passcode attempts before lockout
//	-l int      lockout duration (seconds)
//	-v string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "5m" or integer
// nanoseconds:
//
//	{
//	  "database_path": "txviewer.db",
//	  "session_timeout": "5m",
//	  "poll_interval": "60s",
//	  "page_size": 20,
//	  "seed_count": 60,
//	  "max_attempts": 5,
//	  "lockout_duration": "30s",
//	  "log_level": "info"
//	}
//
// Fields missing from the JSON file keep their previous value.
package config
