package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig carries the Postgres pool settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN renders the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Config holds all runtime configuration for jobboardx.
type Config struct {
	HTTP struct {
		Addr string
	}
	Env      string // "development" | "production"; controls Secure cookies
	Database DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Auth struct {
		AccessSecret  string
		RefreshSecret string
	}
	Backfill struct {
		SharedSecret  string // bearer credential for POST /jobs/backfill
		ScraperOrigin string // trusted applicationLink prefix
		IntervalHours int
	}
	Collaborators struct {
		AssetStoreURL  string
		NotifierURL    string
		BroadcasterURL string
		PaymentAPIURL  string
		PaymentAPIKey  string
		ScraperFeedURL string
	}
}

// Load reads environment variables with local-dev defaults. Signing secrets
// have no safe default; Load fails when they are missing outside development.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.Env = getEnv("ENV", "development")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "jobboardx")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Auth.AccessSecret = getEnv("ACCESS_TOKEN_SECRET", "")
	cfg.Auth.RefreshSecret = getEnv("REFRESH_TOKEN_SECRET", "")

	cfg.Backfill.SharedSecret = getEnv("BACKFILL_SECRET", "")
	cfg.Backfill.ScraperOrigin = getEnv("SCRAPER_ORIGIN", "https://www.indeed.com")
	cfg.Backfill.IntervalHours = parseInt(getEnv("BACKFILL_INTERVAL_HOURS", "24"), 24)
	if cfg.Backfill.IntervalHours < 1 {
		return nil, fmt.Errorf("BACKFILL_INTERVAL_HOURS must be a positive integer")
	}

	cfg.Collaborators.AssetStoreURL = getEnv("ASSET_STORE_URL", "http://localhost:9000")
	cfg.Collaborators.NotifierURL = getEnv("NOTIFIER_URL", "http://localhost:9001")
	cfg.Collaborators.BroadcasterURL = getEnv("BROADCASTER_URL", "http://localhost:9002")
	cfg.Collaborators.PaymentAPIURL = getEnv("PAYMENT_API_URL", "http://localhost:9003")
	cfg.Collaborators.PaymentAPIKey = getEnv("PAYMENT_API_KEY", "")
	cfg.Collaborators.ScraperFeedURL = getEnv("SCRAPER_FEED_URL", "http://localhost:9004")

	if cfg.Env != "development" {
		if cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
			return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required outside development")
		}
		if cfg.Backfill.SharedSecret == "" {
			return nil, fmt.Errorf("BACKFILL_SECRET is required outside development")
		}
	}
	if cfg.Auth.AccessSecret == "" {
		cfg.Auth.AccessSecret = "dev-access-secret"
	}
	if cfg.Auth.RefreshSecret == "" {
		cfg.Auth.RefreshSecret = "dev-refresh-secret"
	}
	if cfg.Backfill.SharedSecret == "" {
		cfg.Backfill.SharedSecret = "dev-backfill-secret"
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
