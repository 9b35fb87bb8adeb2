package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the screener
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Market data provider: yahoo, eodhd
	Provider string

	// Symbol universe
	Symbols SymbolsConfig

	// Database (only needed for SYMBOLS_SOURCE=postgres)
	Database DatabaseConfig

	// Redis (optional distributed rate limiter)
	Redis RedisConfig

	// External APIs
	Yahoo YahooConfig
	EODHD EODHDConfig

	// Outbound HTTP
	HTTP HTTPConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Screening
	ProfilePath  string // YAML screen profile; empty = built-in defaults
	RankSchedule string // cron spec for serve mode
}

// SymbolsConfig describes where the ticker universe comes from
type SymbolsConfig struct {
	Source   string // file, postgres, html
	File     string
	URL      string
	Selector string
	Table    string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds Yahoo Finance endpoints
type YahooConfig struct {
	BaseURL    string
	SessionURL string
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	APIKey  string
	BaseURL string
}

// HTTPConfig tunes the shared outbound client
type HTTPConfig struct {
	Timeout    time.Duration
	RatePerSec int
	MaxRetries int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:     getEnv("PORT", "8089"),
		Env:      getEnv("ENV", "development"),
		Provider: getEnv("PROVIDER", "yahoo"),

		Symbols: SymbolsConfig{
			Source:   getEnv("SYMBOLS_SOURCE", "file"),
			File:     getEnv("SYMBOLS_FILE", "sp500.txt"),
			URL:      getEnv("SYMBOLS_URL", "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"),
			Selector: getEnv("SYMBOLS_SELECTOR", "table#constituents tbody tr td:first-child"),
			Table:    getEnv("SYMBOLS_TABLE", "screener.universe"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Yahoo: YahooConfig{
			BaseURL:    getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			SessionURL: getEnv("YAHOO_SESSION_URL", "https://fc.yahoo.com"),
		},

		EODHD: EODHDConfig{
			APIKey:  getEnv("EODHD_API_KEY", ""),
			BaseURL: getEnv("EODHD_BASE_URL", "https://eodhd.com/api"),
		},

		HTTP: HTTPConfig{
			Timeout:    getEnvAsDuration("HTTP_TIMEOUT", "30s"),
			RatePerSec: getEnvAsInt("HTTP_RATE_PER_SEC", 20),
			MaxRetries: getEnvAsInt("HTTP_MAX_RETRIES", 3),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		ProfilePath:  getEnv("SCREEN_PROFILE", ""),
		RankSchedule: getEnv("RANK_SCHEDULE", "0 0 22 * * 1-5"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" && c.Env != "test" {
		return fmt.Errorf("ENV must be one of: development, staging, production, test")
	}

	switch c.Provider {
	case "yahoo":
	case "eodhd":
		if c.EODHD.APIKey == "" {
			return fmt.Errorf("EODHD_API_KEY is required when PROVIDER=eodhd")
		}
	default:
		return fmt.Errorf("PROVIDER must be one of: yahoo, eodhd")
	}

	switch c.Symbols.Source {
	case "file":
		if c.Symbols.File == "" {
			return fmt.Errorf("SYMBOLS_FILE is required when SYMBOLS_SOURCE=file")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when SYMBOLS_SOURCE=postgres")
		}
	case "html":
		if c.Symbols.URL == "" || c.Symbols.Selector == "" {
			return fmt.Errorf("SYMBOLS_URL and SYMBOLS_SELECTOR are required when SYMBOLS_SOURCE=html")
		}
	default:
		return fmt.Errorf("SYMBOLS_SOURCE must be one of: file, postgres, html")
	}

	if c.HTTP.RatePerSec <= 0 {
		return fmt.Errorf("HTTP_RATE_PER_SEC must be > 0")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
