package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret string
	// JWTIssuer, when set, must match the iss claim of incoming tokens.
	JWTIssuer string

	// RecurrenceTickInterval is how often the background scheduler
	// materializes due recurring expenses.
	RecurrenceTickInterval time.Duration
	// RateLimit is a limiter format string such as "100-M" (100 requests per minute).
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("RECURRENCE_TICK_INTERVAL", "1h")
	viper.SetDefault("RATE_LIMIT", "100-M")

	// Environment variables override defaults and .env file values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		log.Println("Warning: JWT_ISSUER not set. Token issuer will not be verified.")
	}

	tickIntervalStr := viper.GetString("RECURRENCE_TICK_INTERVAL")
	tickInterval, err := time.ParseDuration(tickIntervalStr)
	if err != nil {
		tickInterval = time.Hour
		log.Printf("Warning: Invalid value for RECURRENCE_TICK_INTERVAL ('%s'). Defaulting to %s.\n", tickIntervalStr, tickInterval.String())
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RecurrenceTickInterval = tickInterval
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
