// filepath: internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"mpvshelf/internal/shared"
)

// Config holds the application's configuration.
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logging      LoggingConfig      `toml:"logging"`
	Mpv          MpvConfig          `toml:"mpv"`
	Housekeeping HousekeepingConfig `toml:"housekeeping"`
}

// ServerConfig holds the command bridge HTTP configuration.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig holds the sqlite database configuration.
type DatabaseConfig struct {
	Path string `toml:"path"`
	// DataDir holds downloaded binaries, cover frames and the portable mpv
	// config directory.
	DataDir string `toml:"data_dir"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
	// Audit enables a per-command audit line on the command API.
	Audit bool `toml:"audit"`
}

// MpvConfig holds external player defaults, overridable per user.
type MpvConfig struct {
	ExePath string `toml:"exe_path"`
	// ScriptPath is a lua plugin loaded into every playback session.
	ScriptPath string `toml:"script_path"`
}

// HousekeepingConfig controls the periodic library re-reconciliation.
type HousekeepingConfig struct {
	// Interval accepts "0" (disabled), or durations like "30m", "12h", "1d".
	Interval string `toml:"interval"`
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file for saving: %w", err)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config to file: %w", err)
	}
	return nil
}

// ParseAndValidate processes configuration strings into runtime values and
// applies defaults for anything missing.
func (c *Config) ParseAndValidate() error {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9841
	}
	if c.Database.Path == "" {
		c.Database.Path = "mpvshelf.db"
	}
	if c.Database.DataDir == "" {
		c.Database.DataDir = "mpvshelf_data"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Housekeeping.Interval == "" {
		c.Housekeeping.Interval = "0"
	}
	if _, err := shared.ParseDuration(c.Housekeeping.Interval); err != nil {
		return fmt.Errorf("invalid housekeeping interval: %w", err)
	}
	return nil
}
