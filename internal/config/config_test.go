package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "txviewer.db", c.DatabasePath)
	assert.Equal(t, 5*time.Minute, c.SessionTimeout)
	assert.Equal(t, time.Minute, c.PollInterval)
	assert.Equal(t, 20, c.PageSize)
	assert.Equal(t, 60, c.SeedCount)
	assert.Equal(t, 5, c.MaxAttempts)
	assert.Equal(t, 30*time.Second, c.LockoutDuration)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg := LoadConfig(nil)

	require.NotNil(t, cfg)
	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"database_path":   "from-json.db",
		"session_timeout": "2m",
		"page_size":       5,
	})

	cfg := LoadConfig([]string{"-c", path, "-d", "from-flag.db"})

	assert.Equal(t, "from-flag.db", cfg.DatabasePath)
	assert.Equal(t, 2*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, time.Minute, cfg.PollInterval)
}
