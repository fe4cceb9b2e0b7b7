package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Scoring.
	RatingMode           string // "v6" (default), "v5"/"compat"
	WindowHours          int
	ForecastDays         int
	HistoryRetentionDays int

	// Paths.
	HistoryDBPath string
	LocationsFile string
	OutputPath    string // latest-run JSON, "" disables
	CacheDir      string

	// Fetching.
	WeatherBaseURL string
	MarineBaseURL  string
	FetchTimeout   time.Duration
	CacheTTL       time.Duration

	// Service.
	HTTPAddr        string
	RunInterval     time.Duration // 0 = run once and exit
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string

	// Forecast sink.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	// Notifications.
	PushoverToken  string
	PushoverUser   string
	TelegramToken  string
	TelegramChatID string
	EnablePushover bool
	EnableTelegram bool
}

// GetLogLevel implements observability.LoggerConfig.
func (c *Config) GetLogLevel() string { return c.LogLevel }

// GetLogFormat implements observability.LoggerConfig.
func (c *Config) GetLogFormat() string { return c.LogFormat }

// Load reads configuration from environment variables, applying defaults
// where unset. Invalid values fail startup rather than being silently
// corrected.
func Load() (*Config, error) {
	windowHours, err := envInt("WINDOW_HOURS", 3)
	if err != nil {
		return nil, err
	}
	forecastDays, err := envInt("FORECAST_DAYS", 7)
	if err != nil {
		return nil, err
	}
	retentionDays, err := envInt("HISTORY_RETENTION_DAYS", 180)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := envDuration("FETCH_TIMEOUT", 45*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := envDuration("CACHE_TTL", 36*time.Hour)
	if err != nil {
		return nil, err
	}
	runInterval, err := envDuration("RUN_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	pushoverToken := os.Getenv("PUSHOVER_API_TOKEN")
	pushoverUser := os.Getenv("PUSHOVER_USER_KEY")
	telegramToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramChat := os.Getenv("TELEGRAM_CHAT_ID")

	cfg := &Config{
		RatingMode:           envOrDefault("RATING_MODE", "v6"),
		WindowHours:          windowHours,
		ForecastDays:         forecastDays,
		HistoryRetentionDays: retentionDays,

		HistoryDBPath: envOrDefault("HISTORY_DB_PATH", "data/shorecast.db"),
		LocationsFile: os.Getenv("LOCATIONS_FILE"),
		OutputPath:    envOrDefault("OUTPUT_PATH", "docs/forecast.json"),
		CacheDir:      envOrDefault("CACHE_DIR", ".cache"),

		WeatherBaseURL: envOrDefault("OPENMETEO_WEATHER_URL", "https://api.open-meteo.com/v1/forecast"),
		MarineBaseURL:  envOrDefault("OPENMETEO_MARINE_URL", "https://marine-api.open-meteo.com/v1/marine"),
		FetchTimeout:   fetchTimeout,
		CacheTTL:       cacheTTL,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		RunInterval:     runInterval,
		ShutdownTimeout: shutdownTimeout,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),

		KafkaEnabled:   envBool("KAFKA_ENABLED", false),
		KafkaBrokers:   splitNonEmpty(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "beach-forecasts"),

		PushoverToken:  pushoverToken,
		PushoverUser:   pushoverUser,
		TelegramToken:  telegramToken,
		TelegramChatID: telegramChat,
		EnablePushover: envBool("ENABLE_PUSHOVER", pushoverToken != "" && pushoverUser != ""),
		EnableTelegram: envBool("ENABLE_TELEGRAM", telegramToken != "" && telegramChat != ""),
	}

	switch cfg.RatingMode {
	case "v6", "v5", "compat":
	default:
		return nil, fmt.Errorf("invalid RATING_MODE %q (want v6, v5, or compat)", cfg.RatingMode)
	}
	if cfg.WindowHours < 1 {
		return nil, errors.New("WINDOW_HOURS must be at least 1")
	}
	if cfg.ForecastDays < 1 || cfg.ForecastDays > 16 {
		return nil, errors.New("FORECAST_DAYS must be between 1 and 16")
	}
	if cfg.HistoryRetentionDays < 1 {
		return nil, errors.New("HISTORY_RETENTION_DAYS must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.EnablePushover && (cfg.PushoverToken == "" || cfg.PushoverUser == "") {
		return nil, errors.New("ENABLE_PUSHOVER is true but PUSHOVER_API_TOKEN/PUSHOVER_USER_KEY are not set")
	}
	if cfg.EnableTelegram && (cfg.TelegramToken == "" || cfg.TelegramChatID == "") {
		return nil, errors.New("ENABLE_TELEGRAM is true but TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID are not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, s)
	}
	return d, nil
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return def
	}
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
