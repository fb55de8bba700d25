package commands

import (
	"context"
	"fmt"

	"github.com/wonny/riskscope/internal/marketdata"
	"github.com/wonny/riskscope/pkg/config"
	"github.com/wonny/riskscope/pkg/httputil"
	"github.com/wonny/riskscope/pkg/logger"
	"github.com/wonny/riskscope/pkg/metrics"
	"github.com/wonny/riskscope/pkg/redis"
)

// cachePrefix namespaces every riskscope Redis key
const cachePrefix = "riskscope"

// loadConfig loads env config and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// setup loads config and creates the logger
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg), nil
}

// newRecorder returns nil when METRICS_ENABLED=false
func newRecorder(cfg *config.Config) *metrics.Recorder {
	if !cfg.MetricsEnabled {
		return nil
	}
	return metrics.New()
}

// marketFetcher bundles the fetcher with the Redis client it owns
type marketFetcher struct {
	*marketdata.Fetcher
	redis *redis.Client
}

func (m *marketFetcher) Close() error {
	return m.redis.Close()
}

// newMarketFetcher wires httputil + Redis cache into a marketdata.Fetcher.
// Redis 연결 실패 시 캐시 없이 진행
func newMarketFetcher(ctx context.Context, cfg *config.Config, rec *metrics.Recorder, log *logger.Logger) *marketFetcher {
	rdb, err := redis.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, market cache disabled")
		rdb = redis.Disabled()
	}

	fetcher := marketdata.NewFetcher(httputil.New(cfg, log), redis.NewCache(rdb, cachePrefix), rec, log, cfg.Market.BaseURL).
		WithTTL(cfg.Market.CacheTTL)

	return &marketFetcher{Fetcher: fetcher, redis: rdb}
}
