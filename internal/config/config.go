package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "fallback-secret-key-for-dev-only"

// Config holds application configuration
type Config struct {
	// Server
	Port           string
	Env            string
	MetricsEnabled bool
	HTTPTimeout    time.Duration

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// JWT
	JWTSecret         string
	JWTExpirationDur  time.Duration
	RefreshExpiration time.Duration

	// Telegram
	TelegramBotToken string
	TelegramChatID   string
	TelegramAPIURL   string
	WebhookSecret    string
	NotifyEvents     bool

	// Ledger
	DefaultCurrency string
}

// fileConfig mirrors the optional TOML file named by CONFIG_FILE. Every value
// in it is a default that the matching environment variable overrides.
type fileConfig struct {
	Port string `toml:"port"`
	Env  string `toml:"env"`

	Database struct {
		Driver   string `toml:"driver"`
		Host     string `toml:"host"`
		Port     string `toml:"port"`
		User     string `toml:"user"`
		Password string `toml:"password"`
		Name     string `toml:"name"`
		SSLMode  string `toml:"sslmode"`
		Path     string `toml:"path"`
	} `toml:"database"`

	JWT struct {
		Secret         string `toml:"secret"`
		ExpiresIn      string `toml:"expires_in"`
		RefreshExpires string `toml:"refresh_expires_in"`
	} `toml:"jwt"`

	Telegram struct {
		BotToken      string `toml:"bot_token"`
		ChatID        string `toml:"chat_id"`
		APIURL        string `toml:"api_url"`
		WebhookSecret string `toml:"webhook_secret"`
		NotifyEvents  *bool  `toml:"notify_events"`
	} `toml:"telegram"`

	App struct {
		DefaultCurrency string `toml:"default_currency"`
		MetricsEnabled  *bool  `toml:"metrics_enabled"`
		HTTPTimeout     string `toml:"http_timeout"`
	} `toml:"app"`
}

var appConfig *Config

// Load loads configuration from .env, the optional CONFIG_FILE and the
// process environment, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	var file fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", or(file.Port, "8080")),
		Env:  getEnv("ENV", or(file.Env, "development")),

		// Database
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", or(file.Database.Driver, "postgres"))),
		DBHost:     getEnv("DB_HOST", or(file.Database.Host, "localhost")),
		DBPort:     getEnv("DB_PORT", or(file.Database.Port, "5432")),
		DBUser:     getEnv("DB_USER", or(file.Database.User, "pocketbook")),
		DBPassword: getEnv("DB_PASSWORD", or(file.Database.Password, "pocketbook")),
		DBName:     getEnv("DB_NAME", or(file.Database.Name, "pocketbook")),
		DBSSLMode:  getEnv("DB_SSLMODE", or(file.Database.SSLMode, "disable")),
		DBPath:     getEnv("DB_PATH", or(file.Database.Path, "pocketbook.db")),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", or(file.JWT.Secret, defaultJWTSecret)),

		// Telegram
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", file.Telegram.BotToken),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", file.Telegram.ChatID),
		TelegramAPIURL:   getEnv("TELEGRAM_API_URL", or(file.Telegram.APIURL, "https://api.telegram.org")),
		WebhookSecret:    getEnv("INTERNAL_WEBHOOK_SECRET", file.Telegram.WebhookSecret),

		// Ledger
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", or(file.App.DefaultCurrency, "USD"))),
	}

	config.JWTExpirationDur = parseDuration("JWT_EXPIRES_IN", or(file.JWT.ExpiresIn, "15m"), 15*time.Minute)
	config.RefreshExpiration = parseDuration("REFRESH_EXPIRES_IN", or(file.JWT.RefreshExpires, "168h"), 7*24*time.Hour)
	config.HTTPTimeout = parseDuration("HTTP_TIMEOUT", or(file.App.HTTPTimeout, "10s"), 10*time.Second)
	config.NotifyEvents = parseBool("NOTIFY_EVENTS", boolOr(file.Telegram.NotifyEvents, false))
	config.MetricsEnabled = parseBool("METRICS_ENABLED", boolOr(file.App.MetricsEnabled, true))

	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration, loading it on first use.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the global configuration. Tests use it to avoid reading the
// environment.
func Set(cfg *Config) {
	appConfig = cfg
}

// TelegramConfigured reports whether outbound bot messages can be sent.
func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q: must be postgres or sqlite", c.DBDriver)
	}
	if money.GetCurrency(c.DefaultCurrency) == nil {
		return fmt.Errorf("unsupported DEFAULT_CURRENCY %q", c.DefaultCurrency)
	}

	if c.Env != "production" {
		return nil
	}

	var missing []string
	if c.JWTSecret == defaultJWTSecret {
		missing = append(missing, "JWT_SECRET")
	}
	if c.NotifyEvents && !c.TelegramConfigured() {
		missing = append(missing, "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration for production: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func boolOr(value *bool, fallback bool) bool {
	if value != nil {
		return *value
	}
	return fallback
}

func parseDuration(key, value string, fallback time.Duration) time.Duration {
	raw := getEnv(key, value)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, fallback)
		return fallback
	}
	return d
}

func parseBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, fallback)
		return fallback
	}
	return v
}
