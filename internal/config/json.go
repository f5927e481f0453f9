package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/txviewer/internal/flagx"
	"github.com/dmitrijs2005/txviewer/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from a zero value, so a partial file only overrides what it
// names.
type JsonConfig struct {
	DatabasePath    *string         `json:"database_path"`
	SessionTimeout  *timex.Duration `json:"session_timeout"`
	PollInterval    *timex.Duration `json:"poll_interval"`
	PageSize        *int            `json:"page_size"`
	SeedCount       *int            `json:"seed_count"`
	MaxAttempts     *int            `json:"max_attempts"`
	LockoutDuration *timex.Duration `json:"lockout_duration"`
	LogLevel        *string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. It does nothing
// when no file is given and panics when the file cannot be read or parsed.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.SessionTimeout != nil {
		cfg.SessionTimeout = jc.SessionTimeout.Duration
	}
	if jc.PollInterval != nil {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.PageSize != nil {
		cfg.PageSize = *jc.PageSize
	}
	if jc.SeedCount != nil {
		cfg.SeedCount = *jc.SeedCount
	}
	if jc.MaxAttempts != nil {
		cfg.MaxAttempts = *jc.MaxAttempts
	}
	if jc.LockoutDuration != nil {
		cfg.LockoutDuration = jc.LockoutDuration.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
