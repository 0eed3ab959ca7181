// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the engine configuration
type Config struct {
	// Matching settings
	DefaultLanguage string  // Language pack used when the caller gives none
	AcceptThreshold float64 // Minimum confidence for an accepted candidate
	FallbackWorkers int     // Concurrent fallback classification calls

	// Backends
	Store    *StoreConfig
	Fallback *FallbackConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is picked up when present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Default values
		DefaultLanguage: getEnv("COLMATCH_LANGUAGE", "fr"),
		AcceptThreshold: getEnvAsFloat("COLMATCH_ACCEPT_THRESHOLD", 0.6),
		FallbackWorkers: getEnvAsInt("COLMATCH_FALLBACK_WORKERS", 4),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}

	// Load backend configurations
	storeCfg, err := LoadStoreConfig()
	if err != nil {
		return nil, errors.New("failed to load store configuration: " + err.Error())
	}
	cfg.Store = storeCfg

	fallbackCfg, err := LoadFallbackConfig()
	if err != nil {
		return nil, errors.New("failed to load fallback configuration: " + err.Error())
	}
	cfg.Fallback = fallbackCfg

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Store == nil {
		return errors.New("store configuration is required")
	}

	if c.AcceptThreshold <= 0 || c.AcceptThreshold > 1 {
		return errors.New("accept threshold must be in (0,1]")
	}

	if c.FallbackWorkers < 1 {
		return errors.New("fallback workers must be at least 1")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSeconds)) * time.Second
}
