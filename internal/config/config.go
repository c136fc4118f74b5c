package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	LogDir      string // empty = stdout only
	LogMaxFiles int

	// Storage
	StoreBackend string // "memory" or "postgres"
	DatabaseURL  string
	TablePrefix  string

	// Upload pipeline
	UploadPolicyFile  string        // YAML policy; empty = embedded default
	UploadStepDelay   time.Duration // pause between simulated progress steps
	UploadStepPercent int
	UploadConcurrency int // 0 = one goroutine per item, no cap
	UploadFailureRate float64

	PathCacheSize int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		TablePrefix:  getTablePrefix(env),

		UploadPolicyFile:  getEnv("UPLOAD_POLICY_FILE", ""),
		UploadStepDelay:   getEnvDuration("UPLOAD_STEP_DELAY", 100*time.Millisecond),
		UploadStepPercent: getEnvInt("UPLOAD_STEP_PERCENT", DefaultProgressStep),
		UploadConcurrency: getEnvInt("UPLOAD_CONCURRENCY", 0),
		UploadFailureRate: getEnvFloat("UPLOAD_FAILURE_RATE", 0),

		PathCacheSize: getEnvInt("PATH_CACHE_SIZE", 1024),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
