package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Feedback FeedbackConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings. An empty Addr disables the
// live task feed entirely.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// FeedbackConfig holds settings for the motivational-feedback generator.
// An empty APIKey falls back to canned messages.
type FeedbackConfig struct {
	APIKey string //nolint:gosec // G117: API credential config
	Model  string
}

// Load reads configuration from environment variables. Defaults are safe for
// local development only; in production the DB password must be set
// explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("WEEKPLAN_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("WEEKPLAN_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("WEEKPLAN_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("WEEKPLAN_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("WEEKPLAN_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("WEEKPLAN_CORS_ORIGINS", []string{"http://localhost:3000"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("WEEKPLAN_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("WEEKPLAN_DB_USER", "weekplan"),
			Password: getEnv("WEEKPLAN_DB_PASSWORD", ""),
			DBName:   getEnv("WEEKPLAN_DB_NAME", "weekplan_dev"),
			SSLMode:  getEnv("WEEKPLAN_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("WEEKPLAN_REDIS_ADDR", ""),
			Password: getEnv("WEEKPLAN_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Server: ServerConfig{
			Addr:         getEnv("WEEKPLAN_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Feedback: FeedbackConfig{
			APIKey: getEnv("WEEKPLAN_OPENAI_API_KEY", ""),
			Model:  getEnv("WEEKPLAN_FEEDBACK_MODEL", "gpt-4o-mini"),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Database.SSLMode == "disable" {
		log.Warn().Msg("WEEKPLAN_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("WEEKPLAN_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("WEEKPLAN_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("WEEKPLAN_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("WEEKPLAN_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Feedback.APIKey != "" && c.Feedback.Model == "" {
		return fmt.Errorf("WEEKPLAN_FEEDBACK_MODEL must be set when an API key is configured")
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
