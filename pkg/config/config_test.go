package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8089" {
		t.Errorf("Expected Port to be 8089, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Risk.NumDays != 100 || cfg.Risk.Seed != 42 {
		t.Errorf("Expected risk defaults 100/42, got %d/%d", cfg.Risk.NumDays, cfg.Risk.Seed)
	}

	if cfg.Market.Ticker != "^GSPC" {
		t.Errorf("Expected ticker ^GSPC, got %s", cfg.Market.Ticker)
	}

	wantFrom := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.Market.From.Equal(wantFrom) {
		t.Errorf("Expected MARKET_FROM %v, got %v", wantFrom, cfg.Market.From)
	}

	if cfg.Redis.Enabled {
		t.Error("Expected Redis to be disabled by default")
	}

	if cfg.OutputDir != "outputs" {
		t.Errorf("Expected OutputDir outputs, got %s", cfg.OutputDir)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("RISK_NUM_DAYS", "250")
	t.Setenv("RISK_SEED", "7")
	t.Setenv("MARKET_RPS", "0.5")
	t.Setenv("MARKET_TIMEOUT", "5s")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Risk.NumDays != 250 || cfg.Risk.Seed != 7 {
		t.Errorf("Expected 250/7, got %d/%d", cfg.Risk.NumDays, cfg.Risk.Seed)
	}

	if cfg.Market.RPS != 0.5 {
		t.Errorf("Expected RPS 0.5, got %v", cfg.Market.RPS)
	}

	if cfg.Market.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.Market.Timeout)
	}

	if got := cfg.RedisAddr(); got != "cache:6379" {
		t.Errorf("Expected cache:6379, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"invalid env", "ENV", "invalid"},
		{"invalid log format", "LOG_FORMAT", "xml"},
		{"zero num days", "RISK_NUM_DAYS", "0"},
		{"bad date", "MARKET_FROM", "01/02/2023"},
		{"inverted range", "MARKET_TO", "2022-01-01"},
		{"zero rps", "MARKET_RPS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s, got nil", tt.key, tt.val)
			}
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	expected := 2 * time.Hour

	if duration != expected {
		t.Errorf("Expected duration to be %v, got %v", expected, duration)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "100")

	value := getEnvAsInt("TEST_INT", 50)
	if value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}

	t.Setenv("TEST_INT", "abc")
	if value := getEnvAsInt("TEST_INT", 50); value != 50 {
		t.Errorf("Expected fallback 50, got %d", value)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "1.25")

	if value := getEnvAsFloat("TEST_FLOAT", 2); value != 1.25 {
		t.Errorf("Expected value to be 1.25, got %v", value)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")

	value := getEnvAsBool("TEST_BOOL", false)
	if value != true {
		t.Errorf("Expected value to be true, got %v", value)
	}
}
