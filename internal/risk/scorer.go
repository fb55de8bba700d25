package risk

import (
	"fmt"
	"math"

	"github.com/wonny/riskscope/internal/contracts"
)

// Composite weights
// ⭐ SSOT: 가중치는 정책 상수 (호출자가 조정 불가)
// sentiment(40%) + market(40%) + policy shock(20%)
const (
	WeightSentiment = 0.4
	WeightMarket    = 0.4
	WeightShock     = 0.2
)

// MinRows is the shortest series the gradient is defined for
const MinRows = 2

// Score enriches ts with market_change, sentiment_volatility and risk_score.
// ts is never modified: the result is a deep copy with the three columns added.
// Validation runs before any computation, so a failure yields no partial output.
func Score(ts *contracts.TimeSeries) (*contracts.TimeSeries, error) {
	if err := checkInputs(ts); err != nil {
		return nil, err
	}

	n := len(ts.MarketPrice)
	out := ts.Clone()
	out.MarketChange = absAll(Gradient(ts.MarketPrice))
	out.SentimentVolatility = absAll(Gradient(ts.SentimentScore))
	out.RiskScore = make([]float64, n)
	for i := 0; i < n; i++ {
		out.RiskScore[i] = Composite(out.SentimentVolatility[i], out.MarketChange[i], ts.ShockValue(i))
	}

	return out, nil
}

// Composite is the per-row risk formula.
// float64 변환으로 각 곱을 반올림 (FMA 융합 금지: 플랫폼 간 동일 결과)
func Composite(sentimentVolatility, marketChange, shock float64) float64 {
	return float64(WeightSentiment*sentimentVolatility) +
		float64(WeightMarket*marketChange) +
		float64(WeightShock*shock)
}

// checkInputs: missing → misaligned → too short → non-finite
func checkInputs(ts *contracts.TimeSeries) error {
	required := []struct {
		name    string
		present bool
	}{
		{contracts.ColMarketPrice, ts.MarketPrice != nil},
		{contracts.ColSentimentScore, ts.SentimentScore != nil},
		{contracts.ColPolicyShock, ts.PolicyShock != nil},
	}
	for _, col := range required {
		if !col.present {
			return contracts.MissingColumn(col.name)
		}
	}

	// date는 선택: 없으면 market_price 길이가 기준 (TimeSeries.Len)
	n := ts.Len()
	if err := ts.CheckAligned(); err != nil {
		return err
	}

	if n < MinRows {
		return fmt.Errorf("%w: gradient needs at least %d rows, got %d",
			contracts.ErrInsufficientLength, MinRows, n)
	}

	if err := checkFinite(contracts.ColMarketPrice, ts.MarketPrice); err != nil {
		return err
	}
	return checkFinite(contracts.ColSentimentScore, ts.SentimentScore)
}

func checkFinite(column string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return contracts.NonFinite(column, i)
		}
	}
	return nil
}

// Gradient estimates dx/di at unit spacing: central difference inside,
// first-order one-sided difference at both edges.
// [100, 102, 101, 105] → [2, 0.5, 1.5, 4]
// Returns nil for fewer than 2 points, where the gradient is undefined.
func Gradient(x []float64) []float64 {
	n := len(x)
	if n < MinRows {
		return nil
	}

	g := make([]float64, n)
	g[0] = x[1] - x[0]
	g[n-1] = x[n-1] - x[n-2]
	for i := 1; i < n-1; i++ {
		g[i] = (x[i+1] - x[i-1]) / 2
	}
	return g
}

func absAll(values []float64) []float64 {
	for i, v := range values {
		values[i] = math.Abs(v)
	}
	return values
}
