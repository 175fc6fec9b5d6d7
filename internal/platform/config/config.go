package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// FiscalYearStartMonth is the calendar month (1..12) the fiscal year begins on.
	FiscalYearStartMonth int
	// AmountScale is the number of decimal places monetary amounts are kept at.
	AmountScale int32

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
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
	viper.SetDefault("FISCAL_YEAR_START_MONTH", 1)
	viper.SetDefault("AMOUNT_SCALE", 2)
	viper.SetDefault("RATE_LIMIT", "300-M")

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

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.FiscalYearStartMonth = viper.GetInt("FISCAL_YEAR_START_MONTH")
	if cfg.FiscalYearStartMonth < 1 || cfg.FiscalYearStartMonth > 12 {
		log.Printf("Warning: Invalid FISCAL_YEAR_START_MONTH (%d). Defaulting to 1 (January).\n", cfg.FiscalYearStartMonth)
		cfg.FiscalYearStartMonth = 1
	}

	cfg.AmountScale = viper.GetInt32("AMOUNT_SCALE")
	if cfg.AmountScale < 0 || cfg.AmountScale > 8 {
		log.Printf("Warning: Invalid AMOUNT_SCALE (%d). Defaulting to 2.\n", cfg.AmountScale)
		cfg.AmountScale = 2
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
