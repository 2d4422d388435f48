// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// StorageBackend selects the implementation of the local storage area.
type StorageBackend string

const (
	BackendFile     StorageBackend = "file"
	BackendPostgres StorageBackend = "postgres"
	BackendRedis    StorageBackend = "redis"
	BackendMemory   StorageBackend = "memory"
)

// Config holds all server settings.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	Storage StorageConfig
	Admin   AdminConfig

	// DatabaseURL backs the clients directory, and the storage area when
	// Storage.Backend is postgres. Empty disables the directory endpoints.
	DatabaseURL string
	DBMaxConns  int

	CORSAllowOrigins []string
	ShutdownTimeout  time.Duration
}

// StorageConfig configures the local storage area.
type StorageConfig struct {
	Backend         StorageBackend
	Dir             string
	RedisURL        string
	RedisPrefix     string
	RedisMaxRetries int
	StrictDecoding  bool
}

// AdminConfig holds the single admin account. PasswordHash is a bcrypt hash;
// Password is a plaintext fallback for development and is hashed at startup.
type AdminConfig struct {
	Username     string
	PasswordHash string
	Password     string
}

// Hash returns the bcrypt hash used for login: PasswordHash as is, or a hash
// of the plaintext Password. Both empty yields nil, which disables login.
func (a AdminConfig) Hash() ([]byte, error) {
	if a.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(a.PasswordHash)); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
		return []byte(a.PasswordHash), nil
	}
	if a.Password == "" {
		return nil, nil
	}
	return bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
}

// Development reports whether APP_ENV is development.
func (c Config) Development() bool {
	return c.Env == "development"
}

// FromEnv reads and validates configuration from environment variables.
func FromEnv() (Config, error) {
	cfg := Parse()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads environment variables without validating, so callers can apply
// overrides (CLI flags) first.
func Parse() Config {
	return Config{
		Port:     getEnv("APP_PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Storage: StorageConfig{
			Backend:         StorageBackend(strings.ToLower(getEnv("STORAGE_BACKEND", string(BackendFile)))),
			Dir:             getEnv("STORAGE_DIR", "./data"),
			RedisURL:        os.Getenv("REDIS_URL"),
			RedisPrefix:     getEnv("REDIS_PREFIX", "invoicedesk:ls:"),
			RedisMaxRetries: getEnvInt("REDIS_MAX_RETRIES", 16),
			StrictDecoding:  getEnvBool("STRICT_DECODING", false),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			Password:     os.Getenv("ADMIN_PASSWORD"),
		},
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 10),
		CORSAllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("STORAGE_DIR is required for the file backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
