package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Only the flags listed in
// the package doc are considered; anything else on the command line is
// ignored. Invalid values panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-d", "-t", "-p", "-n", "-s", "-m", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	timeout := fs.Int("t", int(cfg.SessionTimeout.Minutes()), "session timeout (in minutes)")
	poll := fs.Int("p", int(cfg.PollInterval.Seconds()), "session poll interval (in seconds)")
	fs.IntVar(&cfg.PageSize, "n", cfg.PageSize, "history page size")
	fs.IntVar(&cfg.SeedCount, "s", cfg.SeedCount, "mock transactions to seed")
	fs.IntVar(&cfg.MaxAttempts, "m", cfg.MaxAttempts, "passcode attempts before lockout")
	lockout := fs.Int("l", int(cfg.LockoutDuration.Seconds()), "lockout duration (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Durations are only overwritten when given, so sub-unit values from
	// JSON ("90s" for a minutes flag) survive a flag-free run.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.SessionTimeout = time.Duration(*timeout) * time.Minute
		case "p":
			cfg.PollInterval = time.Duration(*poll) * time.Second
		case "l":
			cfg.LockoutDuration = time.Duration(*lockout) * time.Second
		}
	})
}
