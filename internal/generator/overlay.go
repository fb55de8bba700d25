package generator

import (
	"fmt"
	"math"

	"github.com/wonny/riskscope/internal/contracts"
)

// Overlay defaults (real-data runs)
const (
	DefaultOverlaySeed          int64   = 42
	DefaultOverlayShockFraction float64 = 0.05
)

// OverlayOptions controls synthetic signals layered onto a real price series
type OverlayOptions struct {
	Seed          int64   `yaml:"seed" json:"seed"`
	ShockFraction float64 `yaml:"shock_fraction" json:"shock_fraction"` // 0.05 = 5% of rows
}

// DefaultOverlayOptions 실데이터 파이프라인 기본값
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		Seed:          DefaultOverlaySeed,
		ShockFraction: DefaultOverlayShockFraction,
	}
}

// Overlay fills in sentiment_score and policy_shock when they are absent.
// Sentiment follows the generator's noisy sine; shocks hit round(fraction·N)
// rows drawn from the whole series. Columns already present are kept as is.
// Returns a new series, ts is not modified.
func Overlay(ts *contracts.TimeSeries, opts OverlayOptions) (*contracts.TimeSeries, error) {
	return NewSeeded(opts.Seed).Overlay(ts, opts.ShockFraction)
}

// Overlay is the explicit-source form of the package-level Overlay
func (g *Generator) Overlay(ts *contracts.TimeSeries, shockFraction float64) (*contracts.TimeSeries, error) {
	if ts.MarketPrice == nil {
		return nil, contracts.MissingColumn(contracts.ColMarketPrice)
	}
	if err := ts.CheckAligned(); err != nil {
		return nil, err
	}
	n := ts.Len()
	if n < 2 {
		return nil, fmt.Errorf("%w: overlay needs at least 2 rows, got %d",
			contracts.ErrInsufficientLength, n)
	}
	if shockFraction < 0 || shockFraction > 1 || math.IsNaN(shockFraction) {
		return nil, fmt.Errorf("%w: shock_fraction=%v outside [0, 1]",
			contracts.ErrInvalidParameter, shockFraction)
	}

	out := ts.Clone()
	if out.SentimentScore == nil {
		out.SentimentScore = g.noisySine(n)
	}
	if out.PolicyShock == nil {
		shocks, err := g.sampleShocks(n, 0, n, int(math.Round(shockFraction*float64(n))))
		if err != nil {
			return nil, err
		}
		out.PolicyShock = shocks
	}

	return out, nil
}
