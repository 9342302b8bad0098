package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Data locations
	DataDir    string `json:"data_dir"`
	RecipesDir string `json:"recipes_dir"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBPath     string `json:"db_path"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_ssl_mode"`

	// Logging configuration
	LogLevel string `json:"log_level"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{DataDir: %s, RecipesDir: %s, DBDriver: %s, DBPath: %s, DBHost: %s, DBPort: %s, DBUser: %s, DBPassword: [REDACTED], DBName: %s, LogLevel: %s}",
		c.DataDir, c.RecipesDir, c.DBDriver, c.DBPath, c.DBHost, c.DBPort, c.DBUser, c.DBName, c.LogLevel)
}

// LoadConfig reads the configuration from environment variables and returns a Config struct.
// DB_PATH and RECIPES_DIR default to locations under DATA_DIR so a bare
// invocation keeps everything below ./data.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")

	dataDir := GetEnvWithDefault("DATA_DIR", "data")

	config := &Config{
		DataDir:    dataDir,
		RecipesDir: GetEnvWithDefault("RECIPES_DIR", filepath.Join(dataDir, "recipes")),
		DBDriver:   GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBPath:     GetEnvWithDefault("DB_PATH", filepath.Join(dataDir, "coffee.db")),
		DBHost:     GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     GetEnvWithDefault("DB_PORT", "5432"),
		DBUser:     GetEnvWithDefault("DB_USER", "user"),
		DBPassword: GetEnvWithDefault("DB_PASSWORD", "password"),
		DBName:     GetEnvWithDefault("DB_NAME", "coffee"),
		DBSSLMode:  GetEnvWithDefault("DB_SSLMODE", "disable"),
		LogLevel:   GetEnvWithDefault("LOG_LEVEL", "info"),
	}

	switch config.DBDriver {
	case "sqlite", "postgres", "postgresql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s (supported: sqlite, postgres)", config.DBDriver)
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
