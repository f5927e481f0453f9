package config

import "time"

// Config holds runtime settings for the txviewer CLI.
//
// Fields:
//   - DatabasePath: SQLite file holding the session slot and transactions.
//   - SessionTimeout: how long a successful authentication stays valid.
//   - PollInterval: how often the CLI re-checks the session in the background.
//   - PageSize: transactions per history page.
//   - SeedCount: mock transactions generated into an empty database.
//   - MaxAttempts / LockoutDuration: passcode sensor lockout policy.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	DatabasePath    string
	SessionTimeout  time.Duration
	PollInterval    time.Duration
	PageSize        int
	SeedCount       int
	MaxAttempts     int
	LockoutDuration time.Duration
	LogLevel        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "txviewer.db"
	c.SessionTimeout = 5 * time.Minute
	c.PollInterval = time.Minute
	c.PageSize = 20
	c.SeedCount = 60
	c.MaxAttempts = 5
	c.LockoutDuration = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the optional JSON file, then flags.
// Later sources take precedence. args are the command-line arguments
// without the program name.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
