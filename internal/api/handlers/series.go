package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/generator"
	"github.com/wonny/riskscope/internal/pipeline"
	"github.com/wonny/riskscope/internal/risk"
	"github.com/wonny/riskscope/internal/scenario"
	"github.com/wonny/riskscope/pkg/logger"
	"github.com/wonny/riskscope/pkg/metrics"
)

// maxBodyBytes caps POST /api/series/score bodies
const maxBodyBytes = 8 << 20

// SeriesHandler serves scored series over HTTP
// ⭐ SSOT: 시계열 API 핸들러는 여기서만
type SeriesHandler struct {
	fetcher pipeline.MarketFetcher // nil이면 /market 비활성
	metrics *metrics.Recorder
	logger  *logger.Logger
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(fetcher pipeline.MarketFetcher, rec *metrics.Recorder, log *logger.Logger) *SeriesHandler {
	return &SeriesHandler{
		fetcher: fetcher,
		metrics: rec,
		logger:  log.WithComponent("api"),
	}
}

// SeriesResponse is returned by every series endpoint
type SeriesResponse struct {
	RunID   string             `json:"run_id"`
	Summary contracts.Summary  `json:"summary"`
	Tail    *risk.TailReport   `json:"tail,omitempty"`
	Rows    []contracts.Record `json:"rows"`
}

// SyntheticQuery GET /api/series/synthetic 파라미터
type SyntheticQuery struct {
	NumDays int   `json:"num_days" validate:"min=33,max=20000"`
	Seed    int64 `json:"seed"`
}

// GetSynthetic generates and scores a synthetic series
// GET /api/series/synthetic?num_days=100&seed=42
func (h *SeriesHandler) GetSynthetic(w http.ResponseWriter, r *http.Request) {
	q := SyntheticQuery{NumDays: 100, Seed: 42}
	var err error
	if v := r.URL.Query().Get("num_days"); v != "" {
		if q.NumDays, err = strconv.Atoi(v); err != nil {
			respondError(w, http.StatusBadRequest, "num_days must be an integer")
			return
		}
	}
	if v := r.URL.Query().Get("seed"); v != "" {
		if q.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			respondError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
	}
	if errs := validateRequest(q); errs != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid query", Fields: errs})
		return
	}

	h.run(r.Context(), w, pipeline.SyntheticSource{NumDays: q.NumDays, Seed: q.Seed})
}

// MarketQuery GET /api/series/market 파라미터
type MarketQuery struct {
	Ticker        string  `json:"ticker" validate:"required,max=32"`
	From          string  `json:"from" validate:"required,datetime=2006-01-02"`
	To            string  `json:"to" validate:"required,datetime=2006-01-02"`
	Seed          int64   `json:"seed"`
	ShockFraction float64 `json:"shock_fraction" validate:"gte=0,lte=1"`
}

// GetMarket downloads daily closes, overlays synthetic signals and scores them
// GET /api/series/market?ticker=^GSPC&from=2023-01-01&to=2024-04-01
func (h *SeriesHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	if h.fetcher == nil {
		respondError(w, http.StatusServiceUnavailable, "market data source not configured")
		return
	}

	def := scenario.Default()
	values := r.URL.Query()
	q := MarketQuery{
		Ticker:        stringOr(values.Get("ticker"), def.Source.Ticker),
		From:          stringOr(values.Get("from"), def.Source.From),
		To:            stringOr(values.Get("to"), def.Source.To),
		Seed:          def.Overlay.Seed,
		ShockFraction: def.Overlay.ShockFraction,
	}
	var err error
	if v := values.Get("seed"); v != "" {
		if q.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			respondError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
	}
	if v := values.Get("shock_fraction"); v != "" {
		if q.ShockFraction, err = strconv.ParseFloat(v, 64); err != nil {
			respondError(w, http.StatusBadRequest, "shock_fraction must be a number")
			return
		}
	}
	if errs := validateRequest(q); errs != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid query", Fields: errs})
		return
	}

	// datetime 태그로 형식은 이미 검증됨
	from, _ := time.Parse(contracts.DateLayout, q.From)
	to, _ := time.Parse(contracts.DateLayout, q.To)
	if !to.After(from) {
		respondError(w, http.StatusBadRequest, "to must be after from")
		return
	}

	h.run(r.Context(), w, pipeline.RemoteSource{
		Fetcher: h.fetcher,
		Ticker:  q.Ticker,
		From:    from,
		To:      to,
		Overlay: generator.OverlayOptions{Seed: q.Seed, ShockFraction: q.ShockFraction},
	})
}

// ScoreRequest is a column-oriented series.
// A column omitted from the body is absent, not empty.
type ScoreRequest struct {
	Ticker         string    `json:"ticker" validate:"max=32"`
	Date           []string  `json:"date" validate:"omitempty,max=20000,dive,datetime=2006-01-02"`
	MarketPrice    []float64 `json:"market_price" validate:"max=20000"`
	SentimentScore []float64 `json:"sentiment_score" validate:"max=20000"`
	PolicyShock    []float64 `json:"policy_shock" validate:"max=20000"` // 0 / 1
}

// Score scores a caller-supplied series
// POST /api/series/score
func (h *SeriesHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validateRequest(req); errs != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request", Fields: errs})
		return
	}

	h.run(r.Context(), w, requestSource{req: req})
}

// run executes load → score without sinks and writes the response
func (h *SeriesHandler) run(ctx context.Context, w http.ResponseWriter, source contracts.Source) {
	result, err := pipeline.NewRunner(source, nil, h.metrics, h.logger).Run(ctx, pipeline.RunConfig{})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).Error("Failed to score series")
			respondError(w, status, "Failed to score series")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, SeriesResponse{
		RunID:   result.RunID,
		Summary: result.Summary,
		Tail:    result.Tail,
		Rows:    result.Series.Rows(),
	})
}

// requestSource adapts a ScoreRequest to contracts.Source
type requestSource struct {
	req ScoreRequest
}

func (s requestSource) Kind() string { return "request" }

func (s requestSource) Load(ctx context.Context) (*contracts.TimeSeries, error) {
	ts := &contracts.TimeSeries{
		Ticker:         s.req.Ticker,
		MarketPrice:    s.req.MarketPrice,
		SentimentScore: s.req.SentimentScore,
	}
	if s.req.Date != nil {
		ts.Dates = make([]time.Time, len(s.req.Date))
		for i, d := range s.req.Date {
			t, err := time.Parse(contracts.DateLayout, d)
			if err != nil {
				return nil, err
			}
			ts.Dates[i] = t
		}
	} else {
		// date 생략 시 generator와 같은 일 단위 인덱스
		ts.Dates = generator.DateRange(generator.Epoch, len(s.req.MarketPrice))
	}
	if s.req.PolicyShock != nil {
		ts.PolicyShock = make([]bool, len(s.req.PolicyShock))
		for i, v := range s.req.PolicyShock {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("%w: %s[%d]=%v, want 0 or 1",
					contracts.ErrInvalidParameter, contracts.ColPolicyShock, i, v)
			}
			ts.PolicyShock[i] = v == 1
		}
	}
	// 날짜 순서, sentiment 범위, 열 정렬까지 파일 입력과 같은 검사
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
