package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `validate:"required"`
	Env         string `validate:"oneof=development production test"`
	DatabaseURL string `validate:"required"`
	LogLevel    string `validate:"oneof=debug info warn error"`

	JWTSecret        string        `validate:"required"`
	JWTAccessExpiry  time.Duration `validate:"gt=0"`
	JWTRefreshExpiry time.Duration `validate:"gt=0"`

	BaseURL string

	// LifecycleSweepCron schedules the background event closure sweep. Empty disables it.
	LifecycleSweepCron string

	AvailabilityHorizonDays int `validate:"min=1,max=366"`
	NotificationLimit       int `validate:"min=1"`

	// CatalogPath optionally points at a YAML file replacing the built-in skills catalog.
	CatalogPath string

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

var validate = validator.New()

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"))
	if err != nil {
		refreshExpiry = 168 * time.Hour
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		LifecycleSweepCron: getEnv("LIFECYCLE_SWEEP_CRON", "@every 15m"),

		AvailabilityHorizonDays: getEnvInt("AVAILABILITY_HORIZON_DAYS", 90),
		NotificationLimit:       getEnvInt("NOTIFICATION_LIMIT", 50),

		CatalogPath: getEnv("CATALOG_PATH", ""),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
