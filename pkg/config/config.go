package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string `mapstructure:"PGSQL_URL"`
	Port          string `mapstructure:"PORT"`
	IsProduction  bool   `mapstructure:"IS_PRODUCTION"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisEnabled  bool   `mapstructure:"REDIS_ENABLED"`
	RateLimit     string `mapstructure:"RATE_LIMIT"`
	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	for _, key := range []string{
		"PGSQL_URL", "PORT", "IS_PRODUCTION", "JWT_SECRET",
		"REDIS_URL", "REDIS_ENABLED", "RATE_LIMIT", "MIGRATIONS_DIR",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	return &cfg, nil
}
