package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.FirstWeekday = "sunday"
	cfg.Timezone = "Europe/Zurich"
	cfg.PortfolioID = 3

	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.FirstWeekday != "sunday" {
		t.Errorf("expected first_weekday sunday, got %q", loaded.FirstWeekday)
	}
	if loaded.PortfolioID != 3 {
		t.Errorf("expected portfolio_id 3, got %d", loaded.PortfolioID)
	}
	if loaded.BaseCurrency != "CHF" {
		t.Errorf("expected base currency CHF, got %q", loaded.BaseCurrency)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"log_level":"debug"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level debug, got %q", cfg.LogLevel)
	}
	if cfg.ReminderSchedule == "" || cfg.FirstWeekday != "monday" {
		t.Errorf("expected defaults for unset fields, got %+v", cfg)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PortfolioID != 1 {
		t.Errorf("expected default portfolio 1, got %d", cfg.PortfolioID)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvDB, filepath.Join(dir, "custom.db"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected env log level, got %q", cfg.LogLevel)
	}

	path, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath failed: %v", err)
	}
	if path != filepath.Join(dir, "custom.db") {
		t.Errorf("expected env db path, got %s", path)
	}

	prefs, _ := PreferencesPath()
	if prefs != filepath.Join(dir, "preferences.yaml") {
		t.Errorf("expected preferences under home, got %s", prefs)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	t.Setenv(EnvLogLevel, "")
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"first_weekday":"someday"}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown weekday")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad currency", func(c *Config) { c.BaseCurrency = "SWISS" }, true},
		{"bad portfolio", func(c *Config) { c.PortfolioID = 0 }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
		{"bad schedule", func(c *Config) { c.ReminderSchedule = "weekly" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"sunday weeks", func(c *Config) { c.FirstWeekday = "Sunday" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalendar(t *testing.T) {
	cfg := Default()
	cfg.FirstWeekday = "sunday"
	cfg.Timezone = "UTC"

	cal, err := cfg.Calendar()
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}
	if cal.FirstWeekday != time.Sunday {
		t.Errorf("expected Sunday anchor, got %v", cal.FirstWeekday)
	}

	start := cal.WeekStart(time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC))
	if !start.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected Sunday Oct 18, got %v", start)
	}
}
