package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack-server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost", config.Server.Address)
	assert.Equal(t, 8421, config.Server.Port)
	assert.Equal(t, "info", config.Server.LogLevel)
	require.Len(t, config.Tables, 1)
	assert.Equal(t, "main", config.Tables[0].Name)
	assert.Equal(t, 6, config.Tables[0].NumDecks)
	assert.True(t, config.Tables[0].Shuffled())
	require.NoError(t, config.Validate())
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := writeConfigFile(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

table "high-rollers" {
  num_decks            = 8
  turn_timeout_seconds = 30
}

table "practice" {
  num_decks = 1
  shuffle   = false
  seed      = 42
}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "0.0.0.0:9000", config.ListenAddress())
	assert.Equal(t, "debug", config.Server.LogLevel)

	require.Len(t, config.Tables, 2)
	assert.Equal(t, "high-rollers", config.Tables[0].Name)
	assert.Equal(t, 8, config.Tables[0].NumDecks)
	assert.Equal(t, 30, config.Tables[0].TurnTimeoutSeconds)
	assert.True(t, config.Tables[0].Shuffled())

	assert.Equal(t, "practice", config.Tables[1].Name)
	assert.False(t, config.Tables[1].Shuffled())
	assert.Equal(t, int64(42), config.Tables[1].Seed)
}

func TestLoadConfigAppliesDefaultsToPartialFile(t *testing.T) {
	path := writeConfigFile(t, `
server {
  port = 7777
}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", config.Server.Address)
	assert.Equal(t, 7777, config.Server.Port)
	assert.Equal(t, "info", config.Server.LogLevel)
	require.Len(t, config.Tables, 1)
	assert.Equal(t, "main", config.Tables[0].Name)
}

func TestLoadConfigInvalidHCL(t *testing.T) {
	path := writeConfigFile(t, `server { port = `)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid port",
		},
		{
			name:    "no tables",
			mutate:  func(c *Config) { c.Tables = nil },
			wantErr: "at least one table",
		},
		{
			name: "duplicate table names",
			mutate: func(c *Config) {
				c.Tables = append(c.Tables, TableConfig{Name: "main", NumDecks: 6})
			},
			wantErr: "duplicate table name",
		},
		{
			name:    "zero decks",
			mutate:  func(c *Config) { c.Tables[0].NumDecks = 0 },
			wantErr: "num_decks",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Tables[0].TurnTimeoutSeconds = -1 },
			wantErr: "turn_timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
