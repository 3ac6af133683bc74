package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. DASHBOARD_BACKEND_BASE_URL
// or DASHBOARD_UI_POLL_INTERVAL.
const EnvPrefix = "DASHBOARD"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr" envconfig:"ADDR" validate:"required"`
	} `yaml:"server" envconfig:"SERVER"`
	Backend struct {
		BaseURL string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
		Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gte=0"`
		Mock    bool          `yaml:"mock" envconfig:"MOCK"`
	} `yaml:"backend" envconfig:"BACKEND"`
	Dashboard struct {
		DefaultSymbol string        `yaml:"default_symbol" envconfig:"DEFAULT_SYMBOL" validate:"required"`
		PollInterval  time.Duration `yaml:"poll_interval" envconfig:"POLL_INTERVAL" validate:"gte=1s"`
		Timezone      string        `yaml:"timezone" envconfig:"TIMEZONE" validate:"required,timezone"`
	} `yaml:"dashboard" envconfig:"UI"`
	Schedule struct {
		SummaryCron string        `yaml:"summary_cron" envconfig:"SUMMARY_CRON"`
		PruneCron   string        `yaml:"prune_cron" envconfig:"PRUNE_CRON"`
		Retention   time.Duration `yaml:"retention" envconfig:"RETENTION"`
	} `yaml:"schedule" envconfig:"SCHEDULE"`
	Telegram struct {
		BotToken string `yaml:"bot_token" envconfig:"BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" envconfig:"CHAT_ID" validate:"required_with=BotToken"`
	} `yaml:"telegram" envconfig:"TELEGRAM"`
	Redis struct {
		Addr   string `yaml:"addr" envconfig:"ADDR"`
		Stream string `yaml:"stream" envconfig:"STREAM"`
	} `yaml:"redis" envconfig:"REDIS"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database" envconfig:"DATABASE"`
	Log struct {
		Level string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	} `yaml:"log" envconfig:"LOG"`
	Metrics struct {
		Namespace string `yaml:"namespace" envconfig:"NAMESPACE" validate:"required"`
		Subsystem string `yaml:"subsystem" envconfig:"SUBSYSTEM"`
	} `yaml:"metrics" envconfig:"METRICS"`
	Proxy string `yaml:"proxy" envconfig:"PROXY"`
}

// DefaultBackendTimeout applies when backend.timeout is not configured. Zero disables it.
const DefaultBackendTimeout = 30 * time.Second

// Load reads config from a YAML file, then applies .env and environment overrides, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Preset so an explicit zero in the file or environment disables the timeout.
	cfg.Backend.Timeout = DefaultBackendTimeout

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" && cfg.Proxy == "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:5000"
	}
	if cfg.Dashboard.DefaultSymbol == "" {
		cfg.Dashboard.DefaultSymbol = "NIFTY"
	}
	if cfg.Dashboard.PollInterval == 0 {
		cfg.Dashboard.PollInterval = 7 * time.Second
	}
	if cfg.Dashboard.Timezone == "" {
		cfg.Dashboard.Timezone = "Asia/Kolkata"
	}
	if cfg.Schedule.PruneCron == "" {
		cfg.Schedule.PruneCron = "0 30 3 * * *"
	}
	if cfg.Schedule.Retention == 0 {
		cfg.Schedule.Retention = 30 * 24 * time.Hour
	}
	if cfg.Redis.Stream == "" {
		cfg.Redis.Stream = "dashboard:quotes:stream"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/dashboard.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "stock_dashboard"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "backend"
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location resolves the dashboard timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Dashboard.Timezone, err)
	}
	return loc, nil
}

// TelegramEnabled reports whether Telegram alerts and commands are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
