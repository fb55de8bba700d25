package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/wonny/riskscope/pkg/config"
)

type point struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, "riskscope"), mr
}

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
}

func TestNewClient_Miniredis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	cfg := &config.Config{
		Redis: config.RedisConfig{
			Host:    mr.Host(),
			Port:    mr.Port(),
			Enabled: true,
		},
	}

	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if !client.Enabled() {
		t.Error("Expected client to be enabled")
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")

	var result string
	found, err := cache.Get(context.Background(), "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Set(context.Background(), "key", "value", TTLShort); err != nil {
		t.Errorf("Set() should be a no-op, got %v", err)
	}
}

func TestCache_RoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	key := MarketSeriesKey("^GSPC", "2023-01-01", "2024-04-01")
	want := []point{{"2023-01-03", 3824.14}, {"2023-01-04", 3852.97}}

	if err := cache.Set(ctx, key, want, TTLDaily); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if !mr.Exists("riskscope:cache:" + key) {
		t.Error("Expected prefixed key in redis")
	}

	var got []point
	found, err := cache.Get(ctx, key, &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Expected cache hit")
	}
	if len(got) != 2 || got[1] != want[1] {
		t.Errorf("Get() = %v, want %v", got, want)
	}
}

func TestCache_ExpiryAndDelete(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "a", 1, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var v int
	if found, _ := cache.Get(ctx, "a", &v); found {
		t.Error("Expected expired key to miss")
	}

	_ = cache.Set(ctx, "b", 2, time.Hour)
	if err := cache.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if found, _ := cache.Get(ctx, "b", &v); found {
		t.Error("Expected deleted key to miss")
	}
}

func TestCache_CorruptValue(t *testing.T) {
	cache, mr := newTestCache(t)

	_ = mr.Set("riskscope:cache:bad", "{not json")

	var v []point
	found, err := cache.Get(context.Background(), "bad", &v)
	if err == nil {
		t.Error("Expected unmarshal error")
	}
	if found {
		t.Error("Expected found=false on corrupt value")
	}
}

func TestMarketSeriesKey(t *testing.T) {
	got := MarketSeriesKey("^GSPC", "2023-01-01", "2024-04-01")
	if got != "market:^GSPC:2023-01-01:2024-04-01" {
		t.Errorf("MarketSeriesKey() = %s", got)
	}
}
