// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	Server   ServerConfig   `toml:"server"`
}

// ScheduleConfig holds working-hours and step-expansion settings.
type ScheduleConfig struct {
	DayStart           string `toml:"day_start"`            // e.g., "08:00"
	DayEnd             string `toml:"day_end"`              // e.g., "20:00"
	DefaultStepMinutes int    `toml:"default_step_minutes"` // total minutes when a note carries no duration
	MinStepMinutes     int    `toml:"min_step_minutes"`     // floor for a single expanded step
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"` // e.g., ":8080"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			DayStart:           "08:00",
			DayEnd:             "20:00",
			DefaultStepMinutes: 90,
			MinStepMinutes:     15,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "blockplan.db"
	}
	return filepath.Join(home, ".local", "share", "blockplan", "blockplan.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "blockplan", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BLOCKPLAN_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("BLOCKPLAN_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}
	if v := os.Getenv("BLOCKPLAN_DEFAULT_STEP_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.DefaultStepMinutes = n
		}
	}
	if v := os.Getenv("BLOCKPLAN_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("BLOCKPLAN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateTime(c.Schedule.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Schedule.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Schedule.DayStart >= c.Schedule.DayEnd {
		return errors.New("day_start must be before day_end")
	}
	if c.Schedule.DefaultStepMinutes <= 0 {
		return errors.New("default_step_minutes must be positive")
	}
	if c.Schedule.MinStepMinutes <= 0 {
		return errors.New("min_step_minutes must be positive")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Server.Addr == "" {
		return errors.New("server addr must be set")
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
