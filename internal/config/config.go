// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppPort             string
	DBDriver            string
	DatabaseDSN         string
	SecretKey           string
	TokenTTL            time.Duration
	SessionTTL          time.Duration
	SessionCookieSecure bool
	RedisURL            string
	RabbitMQURL         string
	LikesAllowOwn       bool
	TimelineLimit       int
	MetricsEnabled      bool
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromViper(viper.New())
}

// FromViper builds a Config from v after applying defaults and environment overrides.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "warbler.db")
	v.SetDefault("SECRET_KEY", "it's a secret")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LIKES_ALLOW_OWN", false)
	v.SetDefault("TIMELINE_LIMIT", 100)
	v.SetDefault("METRICS_ENABLED", true)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:             v.GetString("APP_PORT"),
		DBDriver:            v.GetString("DB_DRIVER"),
		DatabaseDSN:         v.GetString("DATABASE_DSN"),
		SecretKey:           v.GetString("SECRET_KEY"),
		TokenTTL:            v.GetDuration("TOKEN_TTL"),
		SessionTTL:          v.GetDuration("SESSION_TTL"),
		SessionCookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
		RedisURL:            v.GetString("REDIS_URL"),
		RabbitMQURL:         v.GetString("RABBITMQ_URL"),
		LikesAllowOwn:       v.GetBool("LIKES_ALLOW_OWN"),
		TimelineLimit:       v.GetInt("TIMELINE_LIMIT"),
		MetricsEnabled:      v.GetBool("METRICS_ENABLED"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.TimelineLimit <= 0 {
		return fmt.Errorf("TIMELINE_LIMIT must be positive, got %d", c.TimelineLimit)
	}
	return nil
}
