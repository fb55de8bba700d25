package generator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/wonny/riskscope/internal/contracts"
)

// Synthetic series policy
const (
	BasePrice        = 100.0 // random walk offset
	SentimentPeriods = 1.5   // sine periods over the series length
	SentimentNoise   = 0.2   // Gaussian noise std-dev added to the sine
	ShockCount       = 3     // policy shocks per series
	ShockWindowStart = 20    // first eligible shock index
	ShockWindowTail  = 10    // trailing days excluded from shocks

	// MinDays leaves room for ShockCount distinct shocks inside [20, N-10)
	MinDays = ShockWindowStart + ShockWindowTail + ShockCount
)

// Epoch is the first date of every synthetic series
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Generator simulates market, sentiment and policy-shock signals
// ⭐ SSOT: 합성 데이터 생성은 여기서만 (난수원은 호출자가 소유)
type Generator struct {
	rng *rand.Rand
}

// New creates a generator drawing from rng.
// The generator owns no other state; reusing rng continues its stream.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// NewSeeded creates a generator with its own source seeded by seed
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

// Generate builds a numDays series from a fresh source seeded by seed.
// Same (numDays, seed) always yields the same series.
func Generate(numDays int, seed int64) (*contracts.TimeSeries, error) {
	return NewSeeded(seed).Generate(numDays)
}

// Generate builds a numDays synthetic series.
// Draw order: price increments, then sentiment noise, then shock days.
func (g *Generator) Generate(numDays int) (*contracts.TimeSeries, error) {
	if numDays < MinDays {
		return nil, fmt.Errorf("%w: num_days=%d, need at least %d for %d shocks in [%d, num_days-%d)",
			contracts.ErrInvalidParameter, numDays, MinDays, ShockCount, ShockWindowStart, ShockWindowTail)
	}

	prices := g.randomWalk(numDays)
	sentiment := g.noisySine(numDays)
	shocks, err := g.sampleShocks(numDays, ShockWindowStart, numDays-ShockWindowTail, ShockCount)
	if err != nil {
		return nil, err
	}

	return &contracts.TimeSeries{
		Ticker:         contracts.SyntheticTicker,
		Dates:          DateRange(Epoch, numDays),
		MarketPrice:    prices,
		SentimentScore: sentiment,
		PolicyShock:    shocks,
	}, nil
}

// DateRange returns n contiguous calendar days starting at start
func DateRange(start time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// randomWalk: BasePrice + cumulative sum of N(0,1) increments
func (g *Generator) randomWalk(n int) []float64 {
	prices := make([]float64, n)
	level := BasePrice
	for i := range prices {
		level += g.rng.NormFloat64()
		prices[i] = level
	}
	return prices
}

// noisySine: clip(sin(linspace(0, 2π·periods, n)) + N(0, noise²), -1, 1)
func (g *Generator) noisySine(n int) []float64 {
	span := 2 * math.Pi * SentimentPeriods
	values := make([]float64, n)
	for i := range values {
		var phase float64
		if n > 1 {
			phase = span * float64(i) / float64(n-1)
		}
		values[i] = Clip(math.Sin(phase)+g.rng.NormFloat64()*SentimentNoise, -1, 1)
	}
	return values
}

// sampleShocks flags count distinct indices drawn uniformly from [lo, hi)
func (g *Generator) sampleShocks(n, lo, hi, count int) ([]bool, error) {
	if lo < 0 || hi > n || hi-lo < count {
		return nil, fmt.Errorf("%w: cannot place %d shocks in [%d, %d)",
			contracts.ErrInvalidParameter, count, lo, hi)
	}

	flags := make([]bool, n)
	for _, idx := range g.sampleWithoutReplacement(lo, hi, count) {
		flags[idx] = true
	}
	return flags, nil
}

// sampleWithoutReplacement returns count distinct ascending values from [lo, hi)
func (g *Generator) sampleWithoutReplacement(lo, hi, count int) []int {
	perm := g.rng.Perm(hi - lo)[:count]
	picked := make([]int, count)
	for i, p := range perm {
		picked[i] = lo + p
	}
	sort.Ints(picked)
	return picked
}

// Clip bounds v to [lo, hi]
func Clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
