package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableConfig defines one blackjack table
type TableConfig struct {
	Name string `hcl:"name,label"`

	// NumDecks is the shoe size in decks.
	NumDecks int `hcl:"num_decks,optional"`

	// Shuffle disables shoe shuffling when explicitly set to false,
	// which makes rounds deterministic. Defaults to true.
	Shuffle *bool `hcl:"shuffle,optional"`

	// Seed fixes the shuffle RNG seed; 0 derives the seed from the
	// clock at startup.
	Seed int64 `hcl:"seed,optional"`

	// TurnTimeoutSeconds auto-stands a player who sits on their turn
	// this long; 0 disables the timer.
	TurnTimeoutSeconds int `hcl:"turn_timeout_seconds,optional"`
}

// Shuffled reports whether the table's shoe should be shuffled.
func (tc TableConfig) Shuffled() bool {
	return tc.Shuffle == nil || *tc.Shuffle
}

// DefaultConfig returns the configuration used when no file is present:
// one six-deck shuffled table with no turn timer.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8421,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{Name: "main", NumDecks: 6},
		},
	}
}

// LoadConfig loads server configuration from an HCL file, falling back
// to defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8421
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if len(config.Tables) == 0 {
		config.Tables = DefaultConfig().Tables
	}
	for i := range config.Tables {
		if config.Tables[i].NumDecks == 0 {
			config.Tables[i].NumDecks = 6
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool)
	for _, table := range c.Tables {
		if table.Name == "" {
			return fmt.Errorf("table name must not be empty")
		}
		if seen[table.Name] {
			return fmt.Errorf("duplicate table name: %s", table.Name)
		}
		seen[table.Name] = true
		if table.NumDecks < 1 {
			return fmt.Errorf("table %s: num_decks must be at least 1", table.Name)
		}
		if table.TurnTimeoutSeconds < 0 {
			return fmt.Errorf("table %s: turn_timeout_seconds must not be negative", table.Name)
		}
	}

	return nil
}

// ListenAddress returns the full host:port the server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
