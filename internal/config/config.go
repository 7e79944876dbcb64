// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
//
// None of these settings carry key material. User passwords and derived keys
// only ever enter the process through operation arguments and are never read
// from the environment.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsHost is the host address the metrics server will bind to.
	MetricsHost string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// MigrationWorkers is the number of concurrent workers used by batch
	// plaintext migration. Each worker performs one key derivation per field,
	// so this bounds the CPU cost of a migration run.
	MigrationWorkers int
	// MigrationKDFPerSec limits key derivations per second during batch
	// migration. Zero disables the limiter.
	MigrationKDFPerSec float64
	// MigrationKDFBurst is the burst size for the key derivation limiter.
	MigrationKDFBurst int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "fieldcrypt"),
		MetricsHost:      env.GetString("METRICS_HOST", "0.0.0.0"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Batch migration
		MigrationWorkers:   env.GetInt("MIGRATION_WORKERS", 4),
		MigrationKDFPerSec: env.GetFloat64("MIGRATION_KDF_PER_SEC", 0),
		MigrationKDFBurst:  env.GetInt("MIGRATION_KDF_BURST", 1),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
