package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIME_ZONE must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Record store
	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// S3 attachment storage, optional
	S3 S3Config

	// Orphan pruning schedule (cron spec, empty disables) and report time zone
	PruneSchedule string
	TimeZone      string

	// Export requests per minute per client
	ExportRateLimit int

	// Letterhead used on exported reports
	ReportProfilePath string
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether attachment uploads go to S3
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "data/planner.db"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
		PruneSchedule:     getEnv("PRUNE_SCHEDULE", "0 2 * * *"),
		TimeZone:          getEnv("TIME_ZONE", "Asia/Jakarta"),
		ReportProfilePath: getEnv("REPORT_PROFILE_PATH", ""),
	}

	limit, err := strconv.Atoi(getEnv("EXPORT_RATE_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("EXPORT_RATE_LIMIT must be an integer: %w", err)
	}
	cfg.ExportRateLimit = limit

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location returns the configured time zone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (memory, sqlite, postgres)", c.StoreDriver)
	}
	if c.ExportRateLimit <= 0 {
		return fmt.Errorf("EXPORT_RATE_LIMIT must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIME_ZONE: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
