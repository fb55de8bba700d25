package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/pkg/httputil"
	"github.com/wonny/riskscope/pkg/logger"
	"github.com/wonny/riskscope/pkg/metrics"
	"github.com/wonny/riskscope/pkg/redis"
)

// Default real-data window (S&P 500)
const (
	DefaultTicker = "^GSPC"
	DefaultFrom   = "2023-01-01"
	DefaultTo     = "2024-04-01"
)

// ErrNoData is returned when the upstream has no closes for the range
var ErrNoData = errors.New("no market data")

// Fetcher downloads daily closes from a Yahoo-style chart API
// ⭐ SSOT: 원격 시세 조회는 여기서만 (캐시 → HTTP 순)
type Fetcher struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	metrics    *metrics.Recorder
	logger     *logger.Logger
	baseURL    string
	ttl        time.Duration
}

// NewFetcher creates a fetcher. cache and rec may be nil.
func NewFetcher(httpClient *httputil.Client, cache *redis.Cache, rec *metrics.Recorder, log *logger.Logger, baseURL string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		cache:      cache,
		metrics:    rec,
		logger:     log.WithComponent("marketdata"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		ttl:        redis.TTLDaily,
	}
}

// WithTTL overrides the cache TTL
func (f *Fetcher) WithTTL(ttl time.Duration) *Fetcher {
	f.ttl = ttl
	return f
}

// chartResponse /v8/finance/chart 응답 (필요한 필드만)
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Fetch returns daily closes of ticker for [from, to) as a date + market_price series
func (f *Fetcher) Fetch(ctx context.Context, ticker string, from, to time.Time) (*contracts.TimeSeries, error) {
	if ticker == "" {
		return nil, fmt.Errorf("%w: empty ticker", contracts.ErrInvalidParameter)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: to %s not after from %s", contracts.ErrInvalidParameter,
			to.Format(contracts.DateLayout), from.Format(contracts.DateLayout))
	}

	log := f.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"from":   from.Format(contracts.DateLayout),
		"to":     to.Format(contracts.DateLayout),
	})
	key := redis.MarketSeriesKey(ticker, from.Format(contracts.DateLayout), to.Format(contracts.DateLayout))

	if f.cache != nil && f.cache.Enabled() {
		var cached contracts.TimeSeries
		found, err := f.cache.Get(ctx, key, &cached)
		if err != nil {
			// 캐시 장애는 원격 조회로 우회
			log.WithError(err).Warn("market cache read failed")
		}
		f.metrics.RecordCacheLookup(found)
		if found {
			log.WithField("rows", cached.Len()).Debug("market cache hit")
			return &cached, nil
		}
	}

	var resp chartResponse
	if err := f.httpClient.GetJSON(ctx, f.chartURL(ticker, from, to), &resp); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
			return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
		}
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}

	ts, err := parseChart(&resp, ticker)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, ts, f.ttl); err != nil {
			log.WithError(err).Warn("market cache write failed")
		}
	}

	log.WithField("rows", ts.Len()).Info("market data fetched")
	return ts, nil
}

// Invalidate drops the cached closes of ticker for [from, to) so the next
// Fetch goes to the remote API
func (f *Fetcher) Invalidate(ctx context.Context, ticker string, from, to time.Time) error {
	if f.cache == nil {
		return nil
	}
	key := redis.MarketSeriesKey(ticker, from.Format(contracts.DateLayout), to.Format(contracts.DateLayout))
	if err := f.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate %s: %w", ticker, err)
	}
	return nil
}

func (f *Fetcher) chartURL(ticker string, from, to time.Time) string {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(from.Unix(), 10))
	params.Set("period2", strconv.FormatInt(to.Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "history")

	return fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.baseURL, url.PathEscape(ticker), params.Encode())
}

// parseChart converts a chart response into a series.
// Null closes are dropped (the API emits them for holidays and halted days);
// a repeated trading date keeps its last close.
func parseChart(resp *chartResponse, ticker string) (*contracts.TimeSeries, error) {
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNoData, resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	result := resp.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("%w: %d timestamps, %d closes",
			contracts.ErrMisaligned, len(result.Timestamp), len(closes))
	}

	byDate := make(map[time.Time]float64, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		// 거래소 현지 날짜 기준
		local := time.Unix(ts+result.Meta.GMTOffset, 0).UTC()
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		byDate[day] = *closes[i]
	}
	if len(byDate) == 0 {
		return nil, fmt.Errorf("%w: %s has only null closes", ErrNoData, ticker)
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	series := &contracts.TimeSeries{
		Ticker:      ticker,
		Dates:       dates,
		MarketPrice: make([]float64, len(dates)),
	}
	for i, d := range dates {
		series.MarketPrice[i] = byDate[d]
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
