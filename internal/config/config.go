package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Quotes   QuotesConfig   `yaml:"quotes"`
	Notify   NotifyConfig   `yaml:"notify"`
	Server   ServerConfig   `yaml:"server"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig holds the background loop intervals as duration
// strings. Unparseable values fall back to the defaults.
type ScheduleConfig struct {
	ReminderInterval string `yaml:"reminder_interval"`
	RolloverInterval string `yaml:"rollover_interval"`
	FocusInterval    string `yaml:"focus_interval"`
	QuoteInterval    string `yaml:"quote_interval"`
}

// ParseReminderInterval returns the reminder dispatch interval.
func (s ScheduleConfig) ParseReminderInterval() time.Duration {
	return parseOr(s.ReminderInterval, 10*time.Second)
}

// ParseRolloverInterval returns the weekly rollover check interval.
func (s ScheduleConfig) ParseRolloverInterval() time.Duration {
	return parseOr(s.RolloverInterval, 30*time.Minute)
}

// ParseFocusInterval returns the focus expiry sweep interval.
func (s ScheduleConfig) ParseFocusInterval() time.Duration {
	return parseOr(s.FocusInterval, 5*time.Second)
}

// ParseQuoteInterval returns the quote posting interval.
func (s ScheduleConfig) ParseQuoteInterval() time.Duration {
	return parseOr(s.QuoteInterval, 30*time.Minute)
}

func parseOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// QuotesConfig configures the motivational quote poster.
type QuotesConfig struct {
	Enabled bool       `yaml:"enabled"`
	Feeds   []FeedItem `yaml:"feeds"`
}

// FeedItem is a single quote feed entry.
type FeedItem struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// NotifyConfig configures notification destinations.
type NotifyConfig struct {
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// DiscordConfig for Discord webhook notifications.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook notifications.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./data/studybot.db"},
		Schedule: ScheduleConfig{
			ReminderInterval: "10s",
			RolloverInterval: "30m",
			FocusInterval:    "5s",
			QuoteInterval:    "30m",
		},
		Quotes: QuotesConfig{Enabled: true},
		Notify: NotifyConfig{},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STUDYBOT_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Notify.Discord.WebhookURL = v
		cfg.Notify.Discord.Enabled = true
	}
	if v := os.Getenv("STUDYBOT_WEBHOOK_URL"); v != "" {
		cfg.Notify.Webhook.URL = v
		cfg.Notify.Webhook.Enabled = true
	}
	if v := os.Getenv("STUDYBOT_WEBHOOK_SECRET"); v != "" {
		cfg.Notify.Webhook.Secret = v
	}
}
