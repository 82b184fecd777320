package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment      string
	AppName          string
	Port             string
	LogLevel         slog.Level
	SQLitePath       string
	MigrationsPath   string
	SeedDefaultData  bool
	YAMLAdaptersPath string

	AniListURL       string
	MangaDexAPIURL   string
	MetadataCacheTTL time.Duration

	SchedulerEnabled bool
	SchedulerMinutes int
	BackfillBatch    int

	NotifyWebhookURL string
	AMQP             AMQPConfig

	PageFetchCloudflare bool
	PageFetchUserAgent  string
}

type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func (c AMQPConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:      getEnv("APP_ENV", "development"),
		AppName:          getEnv("APP_NAME", "bmh"),
		Port:             getEnv("APP_PORT", "8080"),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/bmh.sqlite"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./migrations"),
		SeedDefaultData:  getEnvAsBool("SEED_DEFAULT_DATA", true),
		YAMLAdaptersPath: getEnv("YAML_ADAPTERS_PATH", ""),

		AniListURL:       getEnv("ANILIST_URL", "https://graphql.anilist.co"),
		MangaDexAPIURL:   getEnv("MANGADEX_API_URL", "https://api.mangadex.org"),
		MetadataCacheTTL: getEnvAsDuration("METADATA_CACHE_TTL", 7*24*time.Hour),

		SchedulerEnabled: getEnvAsBool("SCHEDULER_ENABLED", true),
		SchedulerMinutes: getEnvAsInt("SCHEDULER_MINUTES", 60),
		BackfillBatch:    getEnvAsInt("BACKFILL_BATCH", 10),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		AMQP: AMQPConfig{
			URL:        getEnv("AMQP_URL", ""),
			Exchange:   getEnv("AMQP_EXCHANGE", "bmh.library"),
			RoutingKey: getEnv("AMQP_ROUTING_KEY", "library.updates"),
			QueueName:  getEnv("AMQP_QUEUE", "bmh.library.updates"),
		},

		PageFetchCloudflare: getEnvAsBool("PAGE_FETCH_CLOUDFLARE", false),
		PageFetchUserAgent:  getEnv("PAGE_FETCH_UA", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"),
	}

	if cfg.SchedulerMinutes <= 0 {
		cfg.SchedulerMinutes = 60
	}
	if cfg.BackfillBatch <= 0 {
		cfg.BackfillBatch = 10
	}
	if cfg.MetadataCacheTTL <= 0 {
		cfg.MetadataCacheTTL = 7 * 24 * time.Hour
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "INFO"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q, expected DEBUG|INFO|WARN|ERROR", raw)
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsDuration accepts Go durations ("72h") or whole days ("7d").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	if days, ok := strings.CutSuffix(value, "d"); ok {
		parsed, err := strconv.Atoi(days)
		if err != nil {
			return fallback
		}
		return time.Duration(parsed) * 24 * time.Hour
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
