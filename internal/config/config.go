package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds all configuration for the SKU resolution service
type Config struct {
	// Server
	Port        string
	Environment string

	// Database (read-only catalog/rule store)
	DatabaseURL string

	// Snapshot settings
	RefreshInterval time.Duration
	LoadTimeout     time.Duration

	// Manual refresh throttling
	RefreshPerMinute int
	RefreshBurst     int

	// Batch resolve
	BatchMaxLines int
}

// Load loads configuration from environment variables
func Load() *Config {
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbUser := getEnv("DB_USER", "postgres")
		dbPassword := getEnv("DB_PASSWORD", "postgres")
		dbName := getEnv("DB_NAME", "catalog_db")
		dbSSLMode := getEnv("DB_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPassword, dbHost, dbPort, dbName, dbSSLMode)
	}

	return &Config{
		Port:        getEnv("PORT", "8098"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: databaseURL,

		RefreshInterval: getEnvAsDuration("SNAPSHOT_REFRESH_INTERVAL", 5*time.Minute),
		LoadTimeout:     getEnvAsDuration("SNAPSHOT_LOAD_TIMEOUT", 30*time.Second),

		RefreshPerMinute: getEnvAsInt("REFRESH_RATE_PER_MINUTE", 2),
		RefreshBurst:     getEnvAsInt("REFRESH_RATE_BURST", 1),

		BatchMaxLines: getEnvAsInt("BATCH_MAX_LINES", 500),
	}
}

// InitDB opens the read-only connection to the catalog/rule store. The
// management system owns the schema; no migrations run here.
func InitDB(cfg *Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Environment == "production" {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
