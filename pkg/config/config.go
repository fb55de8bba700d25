package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DateLayout for MARKET_FROM / MARKET_TO
const DateLayout = "2006-01-02"

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Synthetic series defaults
	Risk RiskConfig

	// Upstream market data
	Market MarketConfig

	// Redis (market-data cache)
	Redis RedisConfig

	// Output
	OutputDir string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RiskConfig holds generator defaults
type RiskConfig struct {
	NumDays int
	Seed    int64
}

// MarketConfig holds the chart API settings
type MarketConfig struct {
	BaseURL   string
	Ticker    string
	From      time.Time
	To        time.Time
	RPS       float64 // requests per second to the chart API
	Timeout   time.Duration
	CacheTTL  time.Duration
	UserAgent string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	from, err := getEnvAsDate("MARKET_FROM", "2023-01-01")
	if err != nil {
		return nil, err
	}
	to, err := getEnvAsDate("MARKET_TO", "2024-04-01")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Risk: RiskConfig{
			NumDays: getEnvAsInt("RISK_NUM_DAYS", 100),
			Seed:    int64(getEnvAsInt("RISK_SEED", 42)),
		},

		Market: MarketConfig{
			BaseURL:   getEnv("MARKET_BASE_URL", "https://query1.finance.yahoo.com"),
			Ticker:    getEnv("MARKET_TICKER", "^GSPC"),
			From:      from,
			To:        to,
			RPS:       getEnvAsFloat("MARKET_RPS", 2),
			Timeout:   getEnvAsDuration("MARKET_TIMEOUT", "30s"),
			CacheTTL:  getEnvAsDuration("MARKET_CACHE_TTL", "24h"),
			UserAgent: getEnv("MARKET_USER_AGENT", "Mozilla/5.0 (riskscope)"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		OutputDir: getEnv("OUTPUT_DIR", "outputs"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}

	if c.Risk.NumDays <= 0 {
		return fmt.Errorf("RISK_NUM_DAYS must be positive, got %d", c.Risk.NumDays)
	}

	if !c.Market.To.After(c.Market.From) {
		return fmt.Errorf("MARKET_TO (%s) must be after MARKET_FROM (%s)",
			c.Market.To.Format(DateLayout), c.Market.From.Format(DateLayout))
	}

	if c.Market.RPS <= 0 {
		return fmt.Errorf("MARKET_RPS must be positive, got %v", c.Market.RPS)
	}

	return nil
}

// RedisAddr host:port for go-redis
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	// Also try relative to executable
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
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
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsDate: 날짜는 잘못되면 조용히 기본값으로 떨어지지 않고 에러
func getEnvAsDate(key string, defaultValue string) (time.Time, error) {
	valueStr := getEnv(key, defaultValue)

	date, err := time.Parse(DateLayout, valueStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD: %w", key, err)
	}

	return date, nil
}
