package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application runtime configuration.
type Config struct {
	Env                string
	HTTPPort           string
	DatabaseURL        string
	JWTSecret          string
	PINLookupKey       string
	DBMaxConns         int
	AccessTokenTTL     time.Duration
	LocalOffset        time.Duration
	CurrencySymbol     string
	TelegramToken      string
	TelegramChatID     int64
	NotifyTimeout      time.Duration
	DailyReportCron    string
	BootstrapAdminName string
	BootstrapAdminPIN  string
	RateLimitPerMinute int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		PINLookupKey:       os.Getenv("PIN_LOOKUP_KEY"),
		DBMaxConns:         getInt("DB_MAX_CONNS", 10),
		AccessTokenTTL:     getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		CurrencySymbol:     getEnv("CURRENCY_SYMBOL", "₸"),
		TelegramToken:      strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		NotifyTimeout:      getDuration("NOTIFY_TIMEOUT", 10*time.Second),
		DailyReportCron:    strings.TrimSpace(os.Getenv("DAILY_REPORT_CRON")),
		BootstrapAdminName: getEnv("BOOTSTRAP_ADMIN_NAME", "Admin"),
		BootstrapAdminPIN:  strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_PIN")),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 200),
		ReadTimeout:        getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	offset, err := parseOffset(getEnv("LOCAL_UTC_OFFSET", "5h"))
	if err != nil {
		return cfg, fmt.Errorf("LOCAL_UTC_OFFSET: %w", err)
	}
	cfg.LocalOffset = offset

	if chat := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); chat != "" {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

// Location returns the fixed zone used for local days and report rendering.
func (c Config) Location() *time.Location {
	secs := int(c.LocalOffset / time.Second)
	name := "UTC"
	if secs != 0 {
		name = "UTC" + formatOffset(c.LocalOffset)
	}
	return time.FixedZone(name, secs)
}

// TelegramEnabled reports whether both bot token and chat are configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

// parseOffset accepts a Go duration ("5h", "-3h30m") or whole hours ("5", "+5").
func parseOffset(val string) (time.Duration, error) {
	val = strings.TrimSpace(val)
	if hours, err := strconv.Atoi(strings.TrimPrefix(val, "+")); err == nil {
		val = strconv.Itoa(hours) + "h"
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, err
	}
	if d <= -24*time.Hour || d >= 24*time.Hour {
		return 0, fmt.Errorf("offset %s out of range", d)
	}
	return d, nil
}

func formatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if m == 0 {
		return fmt.Sprintf("%s%d", sign, h)
	}
	return fmt.Sprintf("%s%d:%02d", sign, h, m)
}
