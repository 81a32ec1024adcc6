package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studypulse/studypulse/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                     ":8080",
		DBPath:                   "test.db",
		LogLevel:                 "INFO",
		WorkerCount:              2,
		QueueSize:                64,
		NotificationBatchSize:    50,
		NotificationBatchBudget:  30 * time.Second,
		SendTimeout:              5 * time.Second,
		ProjectionInterval:       15 * time.Second,
		ProjectionBatchLimit:     100,
		NotificationTickInterval: time.Minute,
		OverdueScanInterval:      time.Hour,
		MaxConcurrentScan:        4,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{
			name:  "invalid level",
			level: "INVALID",
		},
		{
			name:  "empty level",
			level: "",
		},
		{
			name:  "lowercase valid level",
			level: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.level == "debug" {
				// Lowercase should be accepted (converted to uppercase)
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	validLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}

	for _, level := range validLevels {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level

			err := cfg.Validate()
			assert.NoError(t, err)
		})
	}
}

func TestValidate_InvalidWorkerSettings(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero workers",
			mutate:        func(c *config.Config) { c.WorkerCount = 0 },
			expectedError: "WORKER_COUNT",
		},
		{
			name:          "negative workers",
			mutate:        func(c *config.Config) { c.WorkerCount = -1 },
			expectedError: "WORKER_COUNT",
		},
		{
			name:          "zero queue size",
			mutate:        func(c *config.Config) { c.QueueSize = 0 },
			expectedError: "QUEUE_SIZE",
		},
		{
			name:          "zero scan concurrency",
			mutate:        func(c *config.Config) { c.MaxConcurrentScan = 0 },
			expectedError: "MAX_CONCURRENT_SCAN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_InvalidNotificationSettings(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero batch size",
			mutate:        func(c *config.Config) { c.NotificationBatchSize = 0 },
			expectedError: "NOTIFICATION_BATCH_SIZE",
		},
		{
			name:          "zero batch budget",
			mutate:        func(c *config.Config) { c.NotificationBatchBudget = 0 },
			expectedError: "NOTIFICATION_BATCH_BUDGET",
		},
		{
			name:          "zero send timeout",
			mutate:        func(c *config.Config) { c.SendTimeout = 0 },
			expectedError: "SEND_TIMEOUT",
		},
		{
			name:          "zero tick interval",
			mutate:        func(c *config.Config) { c.NotificationTickInterval = 0 },
			expectedError: "NOTIFICATION_TICK_INTERVAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "WORKER_COUNT")
	assert.Contains(t, errStr, "QUEUE_SIZE")
	assert.Contains(t, errStr, "NOTIFICATION_BATCH_SIZE")
	assert.Contains(t, errStr, "PROJECTION_INTERVAL")
	assert.Contains(t, errStr, "OVERDUE_SCAN_INTERVAL")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Save original values
	originalAddr := os.Getenv("ADDR")
	originalDBPath := os.Getenv("DB_PATH")
	originalBudget := os.Getenv("NOTIFICATION_BATCH_BUDGET")

	defer func() {
		restore := func(key, val string) {
			if val != "" {
				os.Setenv(key, val)
			} else {
				os.Unsetenv(key)
			}
		}
		restore("ADDR", originalAddr)
		restore("DB_PATH", originalDBPath)
		restore("NOTIFICATION_BATCH_BUDGET", originalBudget)
	}()

	os.Setenv("ADDR", ":9090")
	os.Setenv("DB_PATH", "custom.db")
	os.Setenv("NOTIFICATION_BATCH_BUDGET", "45s")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 45*time.Second, cfg.NotificationBatchBudget)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"WORKER_COUNT", "NOTIFICATION_BATCH_SIZE", "SEND_TIMEOUT"} {
		original := os.Getenv(key)
		os.Unsetenv(key)
		defer func(k, v string) {
			if v != "" {
				os.Setenv(k, v)
			}
		}(key, original)
	}

	cfg := config.Load()

	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 50, cfg.NotificationBatchSize)
	assert.Equal(t, 5*time.Second, cfg.SendTimeout)
}
