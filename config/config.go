// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the environment does not override them.
const (
	DefaultServerPort  = "8080"
	DefaultTokenTTL    = time.Hour
	DefaultMaxPageSize = 0 // no cap
	DefaultDatabase    = "restbridge"
)

// Config holds everything the server reads from the environment. The
// signing key is loaded once at startup and treated as immutable for the
// life of the process.
type Config struct {
	ServerPort  string
	Database    string
	SigningKey  []byte
	TokenTTL    time.Duration
	MaxPageSize int

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSL      bool
}

// Load reads the configuration. JWT_SECRET_KEY is the only required
// variable; everything else has a default.
func Load() (*Config, error) {
	key := os.Getenv("JWT_SECRET_KEY")
	if key == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is not set")
	}

	ttl := DefaultTokenTTL
	if raw := GetEnv("TOKEN_TTL", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q", raw)
		}
		ttl = parsed
	}

	maxPageSize := DefaultMaxPageSize
	if raw := GetEnv("MAX_PAGE_SIZE", ""); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid MAX_PAGE_SIZE %q", raw)
		}
		maxPageSize = parsed
	}

	dbPort := 5432
	if raw := GetEnv("DB_PORT", ""); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT %q", raw)
		}
		dbPort = parsed
	}

	return &Config{
		ServerPort:  GetEnv("SERVER_PORT", DefaultServerPort),
		Database:    GetEnv("RESTBRIDGE_DATABASE", DefaultDatabase),
		SigningKey:  []byte(key),
		TokenTTL:    ttl,
		MaxPageSize: maxPageSize,
		DBHost:      GetEnv("DB_HOST", "localhost"),
		DBPort:      dbPort,
		DBUser:      GetEnv("DB_USER", "postgres"),
		DBPassword:  GetEnv("DB_PASSWORD", "postgres"),
		DBName:      GetEnv("DB_NAME", "postgres"),
		DBSSL:       GetEnv("DB_SSL", "false") == "true",
	}, nil
}

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
