package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"crm-insights/internal/analytics"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	CacheDir            string
	LogLevel            string
	SnapshotPath        string
	ForecastHorizon     int
	ForecastPeriod      analytics.Period
	ForecastSeasonal    bool
	CacheTTL            time.Duration
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	cacheDir := filepath.Join(dataPath, "cache")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	// 4. Forecast defaults
	horizon, err := getEnvInt("FORECAST_HORIZON", 6)
	if err != nil {
		return nil, err
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: FORECAST_HORIZON must be positive, got %d", analytics.ErrInvalidConfiguration, horizon)
	}
	period, err := analytics.ParsePeriod(getEnv("FORECAST_PERIOD", string(analytics.PeriodMonth)))
	if err != nil {
		return nil, fmt.Errorf("FORECAST_PERIOD: %w", err)
	}
	ttl, err := getEnvInt("CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		CacheDir:            cacheDir,
		LogLevel:            getEnv("LOG_LEVEL", ""),
		SnapshotPath:        getEnv("SNAPSHOT_PATH", ""),
		ForecastHorizon:     horizon,
		ForecastPeriod:      period,
		ForecastSeasonal:    getEnvBool("FORECAST_SEASONAL", false),
		CacheTTL:            time.Duration(ttl) * time.Second,
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	return cfg, nil
}

// ForecastOptions returns the configured forecast defaults.
func (c *AppConfig) ForecastOptions() analytics.ForecastOptions {
	return analytics.ForecastOptions{
		Horizon:  c.ForecastHorizon,
		Period:   c.ForecastPeriod,
		Seasonal: c.ForecastSeasonal,
	}
}

// CacheFile is where computed results persist between runs.
func (c *AppConfig) CacheFile() string {
	return filepath.Join(c.CacheDir, "results.jsonl")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", analytics.ErrInvalidConfiguration, key, value)
	}
	return n, nil
}
