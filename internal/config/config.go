package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AnshRaj112/wordstreak-backend/internal/database"
	"gopkg.in/yaml.v2"
)

const (
	defaultSQLiteURL   = "vocab.db"
	defaultPostgresURL = "postgres://localhost:5432/wordstreak?sslmode=disable"
)

type Config struct {
	Port            string   `yaml:"port"`
	Environment     string   `yaml:"env"`          // ENV: production, development, etc.
	Host            string   `yaml:"host"`         // Raw HOST env (e.g. https://api.wordstreak.app)
	AllowedHost     string   `yaml:"-"`            // Hostname only for strict host check (production only)
	AllowedOrigins  []string `yaml:"allowed_origins"`
	DatabaseDriver  string   `yaml:"database_driver"` // sqlite3 or postgres
	DatabaseURL     string   `yaml:"database_url"`
	RedisURI        string   `yaml:"redis_uri"` // empty disables caching and the Redis rate limit
	LogLevel        string   `yaml:"log_level"`
	DefaultUserName string   `yaml:"default_user_name"`
	ReminderEnabled bool     `yaml:"reminder_enabled"`
	ReminderHour    int      `yaml:"reminder_hour"` // local hour (0-23) of the streak-at-risk check
}

// Load reads configuration from the environment. When CONFIG_FILE names a
// YAML file, values present in the file override the environment.
func Load() (*Config, error) {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		Host:            host,
		AllowedOrigins:  allowedOrigins,
		DatabaseDriver:  getEnv("DATABASE_DRIVER", database.DriverSQLite),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURI:        getEnv("REDIS_URI", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DefaultUserName: getEnv("DEFAULT_USER_NAME", "Learner"),
		ReminderEnabled: getEnvBool("REMINDER_ENABLED", true),
		ReminderHour:    getEnvInt("REMINDER_HOUR", 20),
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	// The default DSN depends on the driver, which the file may have changed.
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		cfg.DatabaseURL = defaultSQLiteURL
		if cfg.DatabaseDriver == database.DriverPostgres {
			cfg.DatabaseURL = defaultPostgresURL
		}
	}
	if cfg.IsProduction() {
		cfg.AllowedHost = hostname(cfg.Host)
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	// Unmarshal onto the env-derived config so only keys present in the file change.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (want %s or %s)", c.DatabaseDriver, database.DriverSQLite, database.DriverPostgres)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be between 0 and 23, got %d", c.ReminderHour)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	return nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// hostname strips scheme, path and port from a HOST value.
func hostname(host string) string {
	h := strings.TrimSpace(host)
	for _, prefix := range []string{"https://", "http://"} {
		h = strings.TrimPrefix(h, prefix)
	}
	if idx := strings.Index(h, "/"); idx != -1 {
		h = h[:idx]
	}
	if idx := strings.Index(h, ":"); idx != -1 {
		h = h[:idx]
	}
	return strings.TrimSpace(h)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
