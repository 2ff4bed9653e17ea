package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"

	"team_rotator/internal/domain/rotation"
)

const defaultHolidayAPIURL = "https://raw.githubusercontent.com/NateScarlet/holiday-cn/master"

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL      string // Empty means in-memory store
	DBMaxOpenConns   int
	DBMaxIdleConns   int // 0 means half of DBMaxOpenConns
	DBConnLifetime   time.Duration
	SeedFile         string
	RedisURL         string
	CacheTTL         time.Duration
	LogLevel         string
	Environment      string
	Location         *time.Location
	CronSpecRotation string
	CheckWorkingDay  bool
	StepPolicy       rotation.StepPolicy
	HolidayAPIURL    string
	HolidayCacheTTL  time.Duration
	SlackWebhookURL  string // Fallback when Slack:WebhookUrl is not stored
	SlackErrorURL    string // Fallback when Slack:PersonalWebhookUrl is not stored
	HTTPAddr         string
	TelegramToken    string // Optional; enables the bot
	AdminTelegramID  int64
	JobTimeout       time.Duration
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (*AppConfig, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &AppConfig{
		DatabaseURL:      get("DATABASE_URL", ""),
		SeedFile:         get("SEED_FILE", ""),
		RedisURL:         get("REDIS_URL", ""),
		LogLevel:         strings.ToLower(get("LOG_LEVEL", "info")),
		Environment:      strings.ToLower(get("ENVIRONMENT", "development")),
		CronSpecRotation: get("CRON_SPEC_ROTATION", "0 9 * * *"), // Default: 9:00 AM daily
		HolidayAPIURL:    strings.TrimRight(get("HOLIDAY_API_URL", defaultHolidayAPIURL), "/"),
		SlackWebhookURL:  get("SLACK_WEBHOOK_URL", ""),
		SlackErrorURL:    get("SLACK_ERROR_WEBHOOK_URL", ""),
		HTTPAddr:         get("HTTP_ADDR", ":8080"),
		TelegramToken:    get("TELEGRAM_TOKEN", ""),
	}
	var err error

	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", get("CACHE_TTL", "5m")); err != nil {
		return nil, err
	}
	if cfg.HolidayCacheTTL, err = parseDuration("HOLIDAY_CACHE_TTL", get("HOLIDAY_CACHE_TTL", "24h")); err != nil {
		return nil, err
	}
	if cfg.JobTimeout, err = parseDuration("JOB_TIMEOUT", get("JOB_TIMEOUT", "2m")); err != nil {
		return nil, err
	}
	if cfg.DBConnLifetime, err = parseDuration("DB_CONN_MAX_LIFETIME", get("DB_CONN_MAX_LIFETIME", "5m")); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = parseCount("DB_MAX_OPEN_CONNS", get("DB_MAX_OPEN_CONNS", "10")); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = parseCount("DB_MAX_IDLE_CONNS", get("DB_MAX_IDLE_CONNS", "0")); err != nil {
		return nil, err
	}
	if cfg.JobTimeout <= 0 {
		return nil, fmt.Errorf("invalid JOB_TIMEOUT: must be greater than zero")
	}

	cfg.CheckWorkingDay, err = strconv.ParseBool(get("CHECK_WORKING_DAY", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECK_WORKING_DAY: %w", err)
	}

	cfg.StepPolicy, err = rotation.ParseStepPolicy(get("ROTATION_STEP_POLICY", string(rotation.StepPolicyMulti)))
	if err != nil {
		return nil, fmt.Errorf("invalid ROTATION_STEP_POLICY: %w", err)
	}

	cfg.Location, err = time.LoadLocation(get("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	if adminIDStr := get("ADMIN_TELEGRAM_ID", ""); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}
	if cfg.TelegramToken != "" && cfg.AdminTelegramID == 0 {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func parseCount(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}
