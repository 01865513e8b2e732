// Package dbconfig resolves Postgres connection settings from the process
// environment.
package dbconfig

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the pieces of a Postgres connection string. URL, when set,
// wins over the individual fields.
type Config struct {
	URL      string // full connection string, from DATABASE_URL
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewConfigFromEnv reads DATABASE_URL, falling back to the individual DB_*
// variables. Defaults target a local development database.
func NewConfigFromEnv() Config {
	return Config{
		URL:      os.Getenv("DATABASE_URL"),
		Host:     envOr("DB_HOST", "localhost"),
		Port:     envOrInt("DB_PORT", 5432),
		User:     envOr("DB_USER", "postgres"),
		Password: envOr("DB_PASSWORD", "postgres"),
		Database: envOr("DB_NAME", "fastbreak"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),
	}
}

// DSN returns the connection string handed to the pgx pool.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
