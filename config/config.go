package config

import (
	"log"
	"log/slog"
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Instrument
	Symbol string
	TF     string // timeframe label, e.g. "1m"

	// Infrastructure
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string
	MetricsAddr   string
	HTTPAddr      string

	// Chart
	HistoryBars      int
	ChartWidth       int
	ChartHeight      int
	DefaultIndicator string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Symbol: getEnv("SYMBOL", "NIFTY"),
		TF:     getEnv("TF", "1m"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SQLitePath:    getEnv("SQLITE_PATH", "data/bars.db"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),

		HistoryBars:      getEnvInt("HISTORY_BARS", 500),
		ChartWidth:       getEnvInt("CHART_WIDTH", 1280),
		ChartHeight:      getEnvInt("CHART_HEIGHT", 720),
		DefaultIndicator: getEnv("DEFAULT_INDICATOR", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// SlogLevel maps the LOG_LEVEL string onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
