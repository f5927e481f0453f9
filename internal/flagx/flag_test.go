package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-d", "tx.db", "-a", "x"},
			allowed: []string{"-d"},
			want:    []string{"-d", "tx.db"},
		},
		{
			name:    "equals form",
			args:    []string{"-t=5m", "-a", "x"},
			allowed: []string{"-t"},
			want:    []string{"-t=5m"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-d"},
			want:    []string{},
		},
		{
			name:    "dangling flag kept without value",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "next token that looks like a flag is not a value",
			args:    []string{"-d", "-v", "debug"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "several allowed flags keep order",
			args:    []string{"-p", "60", "-x", "-d", "a.db"},
			allowed: []string{"-d", "-p"},
			want:    []string{"-p", "60", "-d", "a.db"},
		},
		{
			name:    "empty input",
			args:    []string{},
			allowed: []string{"-d"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Run("short flag", func(t *testing.T) {
		assert.Equal(t, "/etc/tx.json", ConfigFile([]string{"-c", "/etc/tx.json"}))
	})

	t.Run("long flag with equals", func(t *testing.T) {
		assert.Equal(t, "tx.json", ConfigFile([]string{"-d", "x.db", "-config=tx.json"}))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, ConfigFile([]string{"-d", "x.db"}))
	})

	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "2.json", ConfigFile([]string{"-c", "1.json", "-config", "2.json"}))
	})
}
