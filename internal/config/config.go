package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tippspiel-app/tippspiel/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv       string
	HTTPAddr     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DBURL        string

	FeedBaseURL    string
	FeedTimeout    time.Duration
	FeedMaxRetries int

	// OperatingTimezone is the civil timezone naive feed timestamps are
	// interpreted in, e.g. "Europe/Berlin".
	OperatingTimezone string
	DeadlineLead      time.Duration
	SyncWorkers       int

	InternalJobToken string
	LogLevel         logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	feedTimeout, err := time.ParseDuration(getEnv("OPENLIGADB_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENLIGADB_TIMEOUT: %w", err)
	}
	if feedTimeout <= 0 {
		return Config{}, fmt.Errorf("OPENLIGADB_TIMEOUT must be > 0")
	}
	feedMaxRetries, err := getEnvAsInt("OPENLIGADB_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENLIGADB_MAX_RETRIES: %w", err)
	}
	if feedMaxRetries < 0 {
		return Config{}, fmt.Errorf("OPENLIGADB_MAX_RETRIES must be >= 0")
	}

	operatingTimezone := strings.TrimSpace(getEnv("OPERATING_TIMEZONE", "Europe/Berlin"))
	if _, err := time.LoadLocation(operatingTimezone); err != nil {
		return Config{}, fmt.Errorf("load OPERATING_TIMEZONE %q: %w", operatingTimezone, err)
	}

	deadlineLead, err := time.ParseDuration(getEnv("TIPPING_DEADLINE_LEAD", "3h30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TIPPING_DEADLINE_LEAD: %w", err)
	}
	if deadlineLead <= 0 {
		return Config{}, fmt.Errorf("TIPPING_DEADLINE_LEAD must be > 0")
	}

	syncWorkers, err := getEnvAsInt("SYNC_WORKERS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_WORKERS: %w", err)
	}
	if syncWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_WORKERS must be >= 1")
	}

	return Config{
		AppEnv:            appEnv,
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		DBURL:             strings.TrimSpace(getEnv("DB_URL", "")),
		FeedBaseURL:       strings.TrimSpace(getEnv("OPENLIGADB_BASE_URL", "https://api.openligadb.de")),
		FeedTimeout:       feedTimeout,
		FeedMaxRetries:    feedMaxRetries,
		OperatingTimezone: operatingTimezone,
		DeadlineLead:      deadlineLead,
		SyncWorkers:       syncWorkers,
		InternalJobToken:  strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		LogLevel:          parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return out, nil
}
