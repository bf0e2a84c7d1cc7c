package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected day_start 08:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "20:00" {
		t.Errorf("expected day_end 20:00, got %s", cfg.Schedule.DayEnd)
	}
	if cfg.Schedule.DefaultStepMinutes != 90 {
		t.Errorf("expected default_step_minutes 90, got %d", cfg.Schedule.DefaultStepMinutes)
	}
	if cfg.Schedule.MinStepMinutes != 15 {
		t.Errorf("expected min_step_minutes 15, got %d", cfg.Schedule.MinStepMinutes)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected default day_start, got %s", cfg.Schedule.DayStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
day_start = "07:00"
day_end = "19:00"
default_step_minutes = 60

[storage]
db_path = "/tmp/test.db"

[server]
addr = ":9090"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "07:00" {
		t.Errorf("expected day_start 07:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "19:00" {
		t.Errorf("expected day_end 19:00, got %s", cfg.Schedule.DayEnd)
	}
	if cfg.Schedule.DefaultStepMinutes != 60 {
		t.Errorf("expected default_step_minutes 60, got %d", cfg.Schedule.DefaultStepMinutes)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %s", cfg.Server.Addr)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("BLOCKPLAN_DAY_START", "06:00")
	t.Setenv("BLOCKPLAN_DB_PATH", "/tmp/env.db")
	t.Setenv("BLOCKPLAN_ADDR", ":7070")

	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "06:00" {
		t.Errorf("expected day_start 06:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected db_path /tmp/env.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("expected addr :7070, got %s", cfg.Server.Addr)
	}
}

func TestValidate_InvalidTimes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad day_start", func(c *Config) { c.Schedule.DayStart = "8:00" }},
		{"bad day_end", func(c *Config) { c.Schedule.DayEnd = "20h00" }},
		{"start after end", func(c *Config) { c.Schedule.DayStart = "21:00" }},
		{"zero step minutes", func(c *Config) { c.Schedule.DefaultStepMinutes = 0 }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
