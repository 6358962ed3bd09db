package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/wealthdesk/internal/core/schedule"
	"github.com/example/wealthdesk/internal/core/week"
)

// Environment overrides.
const (
	EnvHome     = "WEALTHDESK_HOME"
	EnvDB       = "WEALTHDESK_DB"
	EnvLogLevel = "WEALTHDESK_LOG_LEVEL"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// Config represents the wealthdesk configuration file
type Config struct {
	Version          string `json:"version"`
	BaseCurrency     string `json:"base_currency"`
	PortfolioID      int64  `json:"portfolio_id"`
	FirstWeekday     string `json:"first_weekday"`      // "monday" or "sunday"
	Timezone         string `json:"timezone,omitempty"` // IANA name, empty = local
	ReminderSchedule string `json:"reminder_schedule"`  // five-field cron spec
	LogLevel         string `json:"log_level"`
	LogPretty        bool   `json:"log_pretty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version:          CurrentVersion,
		BaseCurrency:     "CHF",
		PortfolioID:      1,
		FirstWeekday:     "monday",
		ReminderSchedule: schedule.DefaultReminderSpec,
		LogLevel:         "warn",
		LogPretty:        true,
	}
}

// HomeDir returns the wealthdesk data directory ($WEALTHDESK_HOME or ~/.wealthdesk).
func HomeDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".wealthdesk"), nil
}

// DBPath returns the ledger database path ($WEALTHDESK_DB or <home>/wealthdesk.db).
func DBPath() (string, error) {
	if path := os.Getenv(EnvDB); path != "" {
		return path, nil
	}
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wealthdesk.db"), nil
}

// PreferencesPath returns the user preferences file path.
func PreferencesPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "preferences.yaml"), nil
}

// LoadConfig reads config.json from the specified directory.
// Returns an error wrapping fs.ErrNotExist if there is no config file.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Load resolves the home directory, reads an optional .env file and config.json,
// then applies environment overrides. A missing config file yields defaults.
func Load() (*Config, error) {
	// .env in the working directory is optional
	_ = godotenv.Load()

	dir, err := HomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field can be used.
func (c *Config) Validate() error {
	if len(strings.TrimSpace(c.BaseCurrency)) != 3 {
		return fmt.Errorf("base_currency must be a three-letter code, got %q", c.BaseCurrency)
	}
	if c.PortfolioID <= 0 {
		return fmt.Errorf("portfolio_id must be positive, got %d", c.PortfolioID)
	}
	if _, err := week.ParseWeekday(c.FirstWeekday); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := schedule.ParseReminder(c.ReminderSchedule); err != nil {
		return err
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Calendar builds the week calendar from the first weekday and time zone settings.
func (c *Config) Calendar() (week.Calendar, error) {
	first, err := week.ParseWeekday(c.FirstWeekday)
	if err != nil {
		return week.Calendar{}, err
	}
	loc, err := c.Location()
	if err != nil {
		return week.Calendar{}, err
	}
	return week.New(first, loc), nil
}

// Currency returns the normalized base currency code.
func (c *Config) Currency() string {
	return strings.ToUpper(strings.TrimSpace(c.BaseCurrency))
}
