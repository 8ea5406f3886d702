// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	App     AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// Storage drivers accepted by StorageConfig.Driver.
const (
	DriverCSV      = "csv"
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StorageConfig selects the durable backend of the record store.
type StorageConfig struct {
	Driver string
	// Root is the directory holding the CSV files, the bolt file and the default sqlite file.
	Root string
	// DSN is used by the sqlite and postgres drivers. Empty means a file under Root for sqlite.
	DSN string
}

// BoltPath is the bolt database file under Root.
func (s StorageConfig) BoltPath() string { return filepath.Join(s.Root, "ledger.db") }

// SQLiteDSN returns DSN or the default sqlite file under Root.
func (s StorageConfig) SQLiteDSN() string {
	if s.DSN != "" {
		return s.DSN
	}
	return filepath.Join(s.Root, "ledger.sqlite")
}

// LogConfig holds zap logger settings.
type LogConfig struct {
	Mode       string // "development" or "production"
	Level      string
	FileEnable bool
	Filename   string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Location      string
	MetricsPrefix string
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverCSV)),
			Root:   getEnv("DATA_DIR", "data"),
			DSN:    getEnv("DATABASE_DSN", ""),
		},
		Log: LogConfig{
			Mode:       getEnv("LOG_MODE", "development"),
			Level:      getEnv("LOG_LEVEL", "info"),
			FileEnable: getEnvBool("LOG_FILE_ENABLE", false),
			Filename:   getEnv("LOG_FILE", filepath.Join("logs", "revenue.log")),
		},
		App: AppConfig{
			Dev:           getEnvBool("DEV", true),
			Location:      getEnv("TIMEZONE", ""),
			MetricsPrefix: getEnv("METRICS_PREFIX", "revenue"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
