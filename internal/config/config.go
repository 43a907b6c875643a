package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	defaultAppName             = "NovaPay"
	defaultAppEnv              = "development"
	defaultPort                = "8080"
	defaultLogLevel            = "info"
	defaultShutdownDelay       = 10 * time.Second
	defaultIdempotencyTTL      = 24 * time.Hour
	defaultCommissionThreshold = "1000"
	defaultCommissionPercent   = "10"
	defaultNotifyMaxAttempts   = 3
	defaultNotifyRetryDelay    = 3 * time.Second
	defaultKafkaTopic          = "wallet_notifications"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	AppEnv   string
	Port     string
	LogLevel string

	DatabaseURL string
	RedisURL    string

	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	// Transfer engine parameters.
	CommissionThreshold decimal.Decimal
	CommissionPercent   decimal.Decimal
	AdminWalletID       string

	// Notification delivery policy.
	NotifyMaxAttempts int
	NotifyRetryDelay  time.Duration
	KafkaBrokers      []string
	KafkaTopic        string
}

// Load reads configuration from the environment (and a .env file when
// present) and populates a Config instance. DATABASE_URL and REDIS_URL are
// optional in development: the service falls back to in-memory stores.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		ShutdownPeriod:    defaultShutdownDelay,
		IdempotencyTTL:    defaultIdempotencyTTL,
		AdminWalletID:     os.Getenv("ADMIN_WALLET_ID"),
		NotifyMaxAttempts: defaultNotifyMaxAttempts,
		NotifyRetryDelay:  defaultNotifyRetryDelay,
		KafkaTopic:        getEnv("KAFKA_TOPIC", defaultKafkaTopic),
	}

	var err error
	if cfg.CommissionThreshold, err = decimalEnv("COMMISSION_THRESHOLD", defaultCommissionThreshold); err != nil {
		return Config{}, err
	}
	if cfg.CommissionPercent, err = decimalEnv("COMMISSION_PERCENT", defaultCommissionPercent); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.NotifyRetryDelay, err = durationEnv("NOTIFY_RETRY_DELAY", cfg.NotifyRetryDelay); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("NOTIFY_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid NOTIFY_MAX_ATTEMPTS: %q", v)
		}
		cfg.NotifyMaxAttempts = n
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		for _, broker := range strings.Split(v, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	if cfg.CommissionPercent.IsNegative() {
		return Config{}, fmt.Errorf("COMMISSION_PERCENT must not be negative")
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.AdminWalletID == "" {
			return Config{}, fmt.Errorf("ADMIN_WALLET_ID must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	v := getEnv(key, fallback)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
