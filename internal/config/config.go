package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultDatabaseURL = "daily_planner.db"
	defaultHTTPAddr    = ":8080"
	defaultTokenTTL    = 24 * time.Hour
)

// Config keeps runtime settings for the planner backend.
type Config struct {
	DatabaseURL    string
	HTTPAddr       string
	JWTSecret      string
	TokenTTL       time.Duration
	TelegramToken  string
	ReportInterval time.Duration
	ReportAt       string
	Location       *time.Location
}

// env maps config keys to the environment variables that set them.
var env = map[string]string{
	"database_url":          "DATABASE_URL",
	"http_addr":             "HTTP_ADDR",
	"jwt_secret":            "JWT_SECRET",
	"token_ttl":             "TOKEN_TTL",
	"telegram_token":        "TELEGRAM_TOKEN",
	"report_interval_hours": "REPORT_INTERVAL_HOURS",
	"report_at":             "REPORT_AT",
	"timezone":              "TZ",
}

// Load reads configuration from environment variables and an optional
// planner.yaml in the working directory, with sane defaults.
func Load() (Config, error) {
	return load(newViper("planner"))
}

func newViper(name string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for key, variable := range env {
		_ = v.BindEnv(key, variable)
	}
	v.SetDefault("database_url", defaultDatabaseURL)
	v.SetDefault("http_addr", defaultHTTPAddr)
	v.SetDefault("token_ttl", defaultTokenTTL.String())
	return v
}

func load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		DatabaseURL:    strings.TrimSpace(v.GetString("database_url")),
		HTTPAddr:       strings.TrimSpace(v.GetString("http_addr")),
		JWTSecret:      strings.TrimSpace(v.GetString("jwt_secret")),
		TelegramToken:  strings.TrimSpace(v.GetString("telegram_token")),
		ReportInterval: parseInterval(strings.TrimSpace(v.GetString("report_interval_hours"))),
		ReportAt:       strings.TrimSpace(v.GetString("report_at")),
		Location:       time.Local,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}

	ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("token_ttl")))
	if err != nil || ttl <= 0 {
		return cfg, fmt.Errorf("TOKEN_TTL must be a positive duration, got %q", v.GetString("token_ttl"))
	}
	cfg.TokenTTL = ttl

	if tz := strings.TrimSpace(v.GetString("timezone")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("load timezone %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// BotEnabled reports whether the Telegram front end should run.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
