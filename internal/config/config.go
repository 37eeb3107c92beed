package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string
	LogFormat   string

	// Error-level logs are forwarded to Rollbar when a token is set
	RollbarToken string

	// Optional SQL handoff database for deletion requests and the analytics archive.
	// An empty DatabaseType disables it; the core always runs in memory.
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	LessonEstimatedMinutes int
	DefaultMarket          string

	SignupRateLimit  int
	SignupRateWindow time.Duration

	SESRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
	EmailDebug   bool
}

// Load reads configuration from an optional .env file and environment variables with sensible defaults
func Load() *Config {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load env file", "path", envFile, "error", err)
	}

	return &Config{
		ServerPort:             getEnv("PORT", "3000"),
		Environment:            getEnv("APP_ENV", "development"),
		RollbarToken:           getEnv("ROLLBAR_TOKEN", ""),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "text"),
		DatabaseType:           getEnv("DATABASE_TYPE", ""),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		DatabasePath:           getEnv("DB_PATH", "./tinysteps.db"),
		MigrationsPath:         getEnv("MIGRATIONS_PATH", "./migrations"),
		LessonEstimatedMinutes: getEnvInt("LESSON_ESTIMATED_MINUTES", 9),
		DefaultMarket:          getEnv("DEFAULT_MARKET", "Singapore"),
		SignupRateLimit:        getEnvInt("SIGNUP_RATE_LIMIT", 20),
		SignupRateWindow:       getEnvDuration("SIGNUP_RATE_WINDOW", time.Minute),
		SESRegion:              getEnv("SES_REGION", "us-east-1"),
		SESFromEmail:           getEnv("SES_FROM_EMAIL", ""),
		SESFromName:            getEnv("SES_FROM_NAME", "TinySteps"),
		AppBaseURL:             getEnv("APP_BASE_URL", "http://localhost:3000"),
		EmailDebug:             getEnvBool("EMAIL_DEBUG", false),
	}
}

// HandoffEnabled reports whether a SQL handoff database is configured
func (c *Config) HandoffEnabled() bool {
	return strings.TrimSpace(c.DatabaseType) != ""
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
