// pkg/config/store.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Store backends selectable via COLMATCH_STORE
const (
	StoreBackendMemory   = "memory"
	StoreBackendSQLite   = "sqlite"
	StoreBackendPostgres = "postgres"
)

// StoreConfig selects and parameterizes the pattern store backend
type StoreConfig struct {
	Backend  string // memory, sqlite or postgres
	SQLite   *SQLiteConfig
	Postgres *PostgresConfig
}

// SQLiteConfig holds parameters for the embedded store
type SQLiteConfig struct {
	Path        string        // Database file path; ":memory:" for ephemeral
	BusyTimeout time.Duration // How long writers wait on a locked database
}

// PostgresConfig holds PostgreSQL connection parameters
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Statement timeout
	StatementTimeout time.Duration
}

// FallbackConfig holds parameters for the external fallback classifier.
// The endpoint is any OpenAI-compatible chat completions URL; leaving it
// empty disables the fallback entirely
type FallbackConfig struct {
	Enabled         bool
	Endpoint        string        // Chat completions URL
	APIKey          string        // Bearer token for the endpoint
	Model           string        // Model identifier sent with each request
	Timeout         time.Duration // Per-batch deadline
	CriticalTargets []string      // Restrict fallback to these targets; empty means all
}

// LoadStoreConfig loads store selection and backend parameters from the
// environment
func LoadStoreConfig() (*StoreConfig, error) {
	backend := getEnv("COLMATCH_STORE", StoreBackendSQLite)

	cfg := &StoreConfig{Backend: backend}

	switch backend {
	case StoreBackendMemory:
		// Nothing to configure

	case StoreBackendSQLite:
		cfg.SQLite = &SQLiteConfig{
			Path:        getEnv("COLMATCH_SQLITE_PATH", "colmatch.db"),
			BusyTimeout: getEnvAsDuration("COLMATCH_SQLITE_BUSY_TIMEOUT_SECONDS", 5),
		}

	case StoreBackendPostgres:
		pgCfg, err := LoadPostgresConfig()
		if err != nil {
			return nil, err
		}
		cfg.Postgres = pgCfg

	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}

	return cfg, nil
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables
func LoadPostgresConfig() (*PostgresConfig, error) {
	user := os.Getenv("POSTGRES_USER")
	if user == "" {
		return nil, errors.New("POSTGRES_USER environment variable is required")
	}

	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		return nil, errors.New("POSTGRES_PASSWORD environment variable is required")
	}

	database := os.Getenv("POSTGRES_DB")
	if database == "" {
		return nil, errors.New("POSTGRES_DB environment variable is required")
	}

	cfg := &PostgresConfig{
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnvAsInt("POSTGRES_PORT", 5432),
		User:     user,
		Password: password,
		Database: database,
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxOpenConns:     getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25),
		MaxIdleConns:     getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime:  getEnvAsDuration("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 1800),
		ConnMaxIdleTime:  getEnvAsDuration("POSTGRES_CONN_MAX_IDLE_TIME_SECONDS", 600),
		StatementTimeout: getEnvAsDuration("POSTGRES_STATEMENT_TIMEOUT_SECONDS", 300),
	}

	return cfg, nil
}

// LoadFallbackConfig loads fallback classifier configuration from the
// environment. The classifier stays disabled unless an endpoint is set
func LoadFallbackConfig() (*FallbackConfig, error) {
	endpoint := getEnv("COLMATCH_FALLBACK_URL", "")

	cfg := &FallbackConfig{
		Enabled:         endpoint != "" && getEnvAsBool("COLMATCH_FALLBACK_ENABLED", true),
		Endpoint:        endpoint,
		APIKey:          getEnv("COLMATCH_FALLBACK_API_KEY", os.Getenv("OPENAI_API_KEY")),
		Model:           getEnv("COLMATCH_FALLBACK_MODEL", "gpt-4o-mini"),
		Timeout:         getEnvAsDuration("COLMATCH_FALLBACK_TIMEOUT_SECONDS", 20),
		CriticalTargets: getEnvAsStringSlice("COLMATCH_FALLBACK_CRITICAL_TARGETS", nil),
	}

	if cfg.Enabled && cfg.APIKey == "" {
		return nil, errors.New("COLMATCH_FALLBACK_API_KEY environment variable is required when a fallback endpoint is set")
	}

	return cfg, nil
}

// ConnectionString returns a formatted SQLite DSN
func (c *SQLiteConfig) ConnectionString() string {
	dsn := c.Path
	if c.BusyTimeout > 0 {
		dsn += fmt.Sprintf("?_pragma=busy_timeout(%d)", c.BusyTimeout.Milliseconds())
	}
	return dsn
}

// ConnectionString returns a formatted PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}

// Helper function to parse string slice from environment
func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Simple comma-separated parsing
	var result []string
	for _, v := range splitCommaDelimited(value) {
		if v != "" {
			result = append(result, v)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

// Split comma-delimited string and trim whitespace
func splitCommaDelimited(s string) []string {
	result := make([]string, 0)
	current := ""
	inQuotes := false

	for _, char := range s {
		switch char {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				result = append(result, current)
				current = ""
			} else {
				current += string(char)
			}
		default:
			current += string(char)
		}
	}

	if current != "" {
		result = append(result, current)
	}

	// Trim edges only: entries are caller-defined names and may contain
	// interior spaces
	for i, v := range result {
		result[i] = trimEntry(v)
	}

	return result
}

// trimEntry strips surrounding whitespace and quotes from one entry
func trimEntry(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
