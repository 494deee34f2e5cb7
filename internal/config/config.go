package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, loaded from the environment with
// an optional .env file on top.
type Config struct {
	// DatabaseURL is optional; empty disables signal persistence.
	DatabaseURL string `validate:"omitempty"`

	HTTPAddr     string `validate:"required,hostname_port"`
	ScanInterval time.Duration

	Workers           int     `validate:"min=1,max=64"`
	Timeframe         string  `validate:"oneof=weekly daily"`
	MinAvgVolume      float64 `validate:"min=0"`
	RequestsPerSecond float64 `validate:"gt=0"`
	MarketDataBaseURL string

	AlertTopic    string
	AlertMinScore float64 `validate:"min=0,max=100"`
	AlertCooldown time.Duration

	SMTPHost     string
	SMTPPort     int `validate:"min=0,max=65535"`
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	EmailTo      []string
}

// Load reads the .env file if present, applies defaults, then overrides from
// the environment and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:          ":8080",
		ScanInterval:      6 * time.Hour,
		Workers:           10,
		Timeframe:         "weekly",
		MinAvgVolume:      500_000,
		RequestsPerSecond: 5,
		AlertTopic:        "squeeze-fires",
		AlertMinScore:     50,
		AlertCooldown:     24 * time.Hour,
		SMTPHost:          "smtp.gmail.com",
		SMTPPort:          587,
	}

	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.HTTPAddr = envString("HTTP_ADDR", cfg.HTTPAddr)
	cfg.ScanInterval = envDuration("SCAN_INTERVAL", cfg.ScanInterval)
	cfg.Workers = envInt("SCAN_WORKERS", cfg.Workers)
	cfg.Timeframe = envString("SCAN_TIMEFRAME", cfg.Timeframe)
	cfg.MinAvgVolume = envFloat("MIN_AVG_VOLUME", cfg.MinAvgVolume)
	cfg.RequestsPerSecond = envFloat("PROVIDER_RPS", cfg.RequestsPerSecond)
	cfg.MarketDataBaseURL = envString("MARKETDATA_BASE_URL", cfg.MarketDataBaseURL)
	cfg.AlertTopic = envString("ALERT_TOPIC", cfg.AlertTopic)
	cfg.AlertMinScore = envFloat("ALERT_MIN_SCORE", cfg.AlertMinScore)
	cfg.AlertCooldown = envDuration("ALERT_COOLDOWN", cfg.AlertCooldown)
	cfg.SMTPHost = envString("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = envString("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = envString("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.EmailFrom = envString("EMAIL_FROM", cfg.EmailFrom)
	if to := envString("EMAIL_TO", ""); to != "" {
		for _, addr := range strings.Split(to, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				cfg.EmailTo = append(cfg.EmailTo, addr)
			}
		}
	}

	if cfg.ScanInterval < time.Minute {
		return nil, fmt.Errorf("SCAN_INTERVAL %s is below the 1m floor", cfg.ScanInterval)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// EmailConfigured reports whether the fire report email can be sent.
func (c *Config) EmailConfigured() bool {
	return c.EmailFrom != "" && len(c.EmailTo) > 0
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
