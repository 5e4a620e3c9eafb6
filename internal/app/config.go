package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// ErrNoJWTSecret is returned by LoadConfig when ACCOUNTS_JWT_SECRET is
// unset. There is no safe default for a signing secret.
var ErrNoJWTSecret = errors.New("ACCOUNTS_JWT_SECRET is required")

type Config struct {
	Issuer    string        // Issuer claim for access tokens (default: liftlog-accounts)
	JWTSecret string        // Required: HMAC secret for HS256 token signing
	AccessTTL time.Duration // Access token lifetime (default: 24h)
	ResetTTL  time.Duration // Reset token lifetime (default: 1h)

	DatabaseFile string // Path to SQLite database file (default: ./accounts.db)

	SMTPHost     string // SMTP relay host; mail is disabled when empty
	SMTPPort     int    // SMTP relay port (default: 587)
	SMTPUsername string // Optional SMTP auth username
	SMTPPassword string // Optional SMTP auth password
	MailFrom     string // From address for outbound mail
	AppURL       string // Base URL used in reset links (default: http://localhost:8080)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token sweep interval (default: 1h)
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:    getEnvOrDefault("ACCOUNTS_ISSUER", "liftlog-accounts"),
		JWTSecret: os.Getenv("ACCOUNTS_JWT_SECRET"),
		AccessTTL: getEnvDurationOrDefault("ACCOUNTS_ACCESS_TTL", 24*time.Hour),
		ResetTTL:  getEnvDurationOrDefault("ACCOUNTS_RESET_TTL", time.Hour),

		DatabaseFile: getEnvOrDefault("ACCOUNTS_DATABASE_FILE", "accounts.db"),

		SMTPHost:     os.Getenv("ACCOUNTS_SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("ACCOUNTS_SMTP_PORT", 587),
		SMTPUsername: os.Getenv("ACCOUNTS_SMTP_USERNAME"),
		SMTPPassword: os.Getenv("ACCOUNTS_SMTP_PASSWORD"),
		MailFrom:     getEnvOrDefault("ACCOUNTS_MAIL_FROM", "noreply@liftlog.local"),
		AppURL:       getEnvOrDefault("ACCOUNTS_APP_URL", "http://localhost:8080"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrNoJWTSecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
