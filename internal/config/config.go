package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	MinBudgetMinutes     = 30
	MaxBudgetMinutes     = 180
	DefaultBudgetMinutes = 75
)

var ErrInvalidBudget = fmt.Errorf("daily budget must be between %d and %d minutes", MinBudgetMinutes, MaxBudgetMinutes)

// Config keeps runtime settings for the planner.
type Config struct {
	TelegramToken          string `mapstructure:"telegram_token"`
	DatabaseURL            string `mapstructure:"database_url"`
	DailyBudgetMinutes     int    `mapstructure:"daily_budget_minutes"`
	BudgetEnabled          bool   `mapstructure:"budget_enabled"`
	FocusCount             int    `mapstructure:"focus_count"`
	DigestTime             string `mapstructure:"digest_time"`
	ReconcileIntervalHours int    `mapstructure:"reconcile_interval_hours"`
	Timezone               string `mapstructure:"timezone"`
	LogLevel               string `mapstructure:"log_level"`
	LogFormat              string `mapstructure:"log_format"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("telegram_token", "")
	v.SetDefault("database_url", "chore_planner.db")
	v.SetDefault("daily_budget_minutes", DefaultBudgetMinutes)
	v.SetDefault("budget_enabled", true)
	v.SetDefault("focus_count", 3)
	v.SetDefault("digest_time", "08:00")
	v.SetDefault("reconcile_interval_hours", 6)
	v.SetDefault("timezone", "Local")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Load reads defaults, then the optional YAML file at path, then environment
// variables (TELEGRAM_TOKEN, DATABASE_URL, DAILY_BUDGET_MINUTES, ...).
func Load(path string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := ValidateBudget(c.DailyBudgetMinutes); err != nil {
		return err
	}
	if c.FocusCount != 3 && c.FocusCount != 4 {
		return fmt.Errorf("focus_count must be 3 or 4, got %d", c.FocusCount)
	}
	if _, _, err := ParseClock(c.DigestTime); err != nil {
		return fmt.Errorf("digest_time: %w", err)
	}
	if c.ReconcileIntervalHours < 0 {
		return errors.New("reconcile_interval_hours must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// RequireTelegram is checked by commands that talk to Telegram.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	return nil
}

// ValidateBudget checks a daily budget in minutes.
func ValidateBudget(minutes int) error {
	if minutes < MinBudgetMinutes || minutes > MaxBudgetMinutes {
		return fmt.Errorf("%w, got %d", ErrInvalidBudget, minutes)
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c Config) ReconcileInterval() time.Duration {
	return time.Duration(c.ReconcileIntervalHours) * time.Hour
}

// ParseClock parses an HH:MM wall-clock time.
func ParseClock(raw string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour, minute, nil
}
