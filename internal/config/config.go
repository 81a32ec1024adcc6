package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	WorkerCount int
	QueueSize   int

	NotificationBatchSize   int
	NotificationBatchBudget time.Duration
	SendTimeout             time.Duration

	ProjectionInterval       time.Duration
	ProjectionBatchLimit     int
	NotificationTickInterval time.Duration
	OverdueScanInterval      time.Duration
	MaxConcurrentScan        int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:     envOr("ADDR", ":8080"),
		DBPath:   envOr("DB_PATH", "file:studypulse.db"),
		LogLevel: envOr("LOG_LEVEL", "INFO"),

		WorkerCount: envIntOr("WORKER_COUNT", 2),
		QueueSize:   envIntOr("QUEUE_SIZE", 64),

		NotificationBatchSize:   envIntOr("NOTIFICATION_BATCH_SIZE", 50),
		NotificationBatchBudget: envDurationOr("NOTIFICATION_BATCH_BUDGET", 30*time.Second),
		SendTimeout:             envDurationOr("SEND_TIMEOUT", 5*time.Second),

		ProjectionInterval:       envDurationOr("PROJECTION_INTERVAL", 15*time.Second),
		ProjectionBatchLimit:     envIntOr("PROJECTION_BATCH_LIMIT", 100),
		NotificationTickInterval: envDurationOr("NOTIFICATION_TICK_INTERVAL", time.Minute),
		OverdueScanInterval:      envDurationOr("OVERDUE_SCAN_INTERVAL", time.Hour),
		MaxConcurrentScan:        envIntOr("MAX_CONCURRENT_SCAN", 4),
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []string

	if c.Addr == "" {
		errs = append(errs, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, fmt.Sprintf("WORKER_COUNT must be positive (got %d)", c.WorkerCount))
	}
	if c.QueueSize <= 0 {
		errs = append(errs, fmt.Sprintf("QUEUE_SIZE must be positive (got %d)", c.QueueSize))
	}
	if c.NotificationBatchSize <= 0 {
		errs = append(errs, fmt.Sprintf("NOTIFICATION_BATCH_SIZE must be positive (got %d)", c.NotificationBatchSize))
	}
	if c.NotificationBatchBudget <= 0 {
		errs = append(errs, fmt.Sprintf("NOTIFICATION_BATCH_BUDGET must be positive (got %s)", c.NotificationBatchBudget))
	}
	if c.SendTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("SEND_TIMEOUT must be positive (got %s)", c.SendTimeout))
	}
	if c.ProjectionInterval <= 0 {
		errs = append(errs, fmt.Sprintf("PROJECTION_INTERVAL must be positive (got %s)", c.ProjectionInterval))
	}
	if c.ProjectionBatchLimit <= 0 {
		errs = append(errs, fmt.Sprintf("PROJECTION_BATCH_LIMIT must be positive (got %d)", c.ProjectionBatchLimit))
	}
	if c.NotificationTickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("NOTIFICATION_TICK_INTERVAL must be positive (got %s)", c.NotificationTickInterval))
	}
	if c.OverdueScanInterval <= 0 {
		errs = append(errs, fmt.Sprintf("OVERDUE_SCAN_INTERVAL must be positive (got %s)", c.OverdueScanInterval))
	}
	if c.MaxConcurrentScan <= 0 {
		errs = append(errs, fmt.Sprintf("MAX_CONCURRENT_SCAN must be positive (got %d)", c.MaxConcurrentScan))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
