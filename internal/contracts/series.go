package contracts

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Column names shared by every source and sink
// ⭐ SSOT: CSV 헤더, JSON 키, XLSX 헤더는 모두 여기서만 정의
const (
	ColDate                = "date"
	ColMarketPrice         = "market_price"
	ColSentimentScore      = "sentiment_score"
	ColPolicyShock         = "policy_shock"
	ColMarketChange        = "market_change"
	ColSentimentVolatility = "sentiment_volatility"
	ColRiskScore           = "risk_score"
)

// SyntheticTicker labels series produced by the generator
const SyntheticTicker = "SYNTHETIC"

// DateLayout is the calendar-date layout used by every text format
const DateLayout = "2006-01-02"

// TimeSeries is the single-ticker daily series threaded through the pipeline
// ⭐ SSOT: Generator/Source → Scorer → Renderer 데이터 전달
//
// Columns are stored one slice per column, index = day. A nil slice means the
// column is absent; an empty non-nil slice is a present column of a 0-row series.
type TimeSeries struct {
	Ticker string `json:"ticker"`

	Dates          []time.Time `json:"date"`
	MarketPrice    []float64   `json:"market_price"`
	SentimentScore []float64   `json:"sentiment_score,omitempty"`
	PolicyShock    []bool      `json:"policy_shock,omitempty"`

	// Scorer 산출 컬럼 (additive only)
	MarketChange        []float64 `json:"market_change,omitempty"`
	SentimentVolatility []float64 `json:"sentiment_volatility,omitempty"`
	RiskScore           []float64 `json:"risk_score,omitempty"`
}

// Record is a row view of a TimeSeries, used by tabular sinks
type Record struct {
	Date                time.Time `json:"date"`
	MarketPrice         float64   `json:"market_price"`
	SentimentScore      float64   `json:"sentiment_score"`
	PolicyShock         bool      `json:"policy_shock"`
	MarketChange        float64   `json:"market_change"`
	SentimentVolatility float64   `json:"sentiment_volatility"`
	RiskScore           float64   `json:"risk_score"`
}

// Summary describes a scored series in a few numbers
type Summary struct {
	Ticker      string    `json:"ticker"`
	Rows        int       `json:"rows"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	ShockDays   []int     `json:"shock_days"`
	MinRisk     float64   `json:"min_risk"`
	MaxRisk     float64   `json:"max_risk"`
	MeanRisk    float64   `json:"mean_risk"`
	PeakDate    time.Time `json:"peak_date"`
	PeakIsShock bool      `json:"peak_is_shock"`
}

// Len returns the number of rows.
// date가 없으면 market_price 길이가 행 수
func (ts *TimeSeries) Len() int {
	if ts.Dates == nil {
		return len(ts.MarketPrice)
	}
	return len(ts.Dates)
}

// HasColumn reports whether the named column is present
func (ts *TimeSeries) HasColumn(name string) bool {
	switch name {
	case ColDate:
		return ts.Dates != nil
	case ColMarketPrice:
		return ts.MarketPrice != nil
	case ColSentimentScore:
		return ts.SentimentScore != nil
	case ColPolicyShock:
		return ts.PolicyShock != nil
	case ColMarketChange:
		return ts.MarketChange != nil
	case ColSentimentVolatility:
		return ts.SentimentVolatility != nil
	case ColRiskScore:
		return ts.RiskScore != nil
	default:
		return false
	}
}

// Columns returns the present columns in canonical order
func (ts *TimeSeries) Columns() []string {
	all := []string{
		ColDate, ColMarketPrice, ColSentimentScore, ColPolicyShock,
		ColMarketChange, ColSentimentVolatility, ColRiskScore,
	}
	cols := make([]string, 0, len(all))
	for _, c := range all {
		if ts.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// IsScored reports whether all enrichment columns are present
func (ts *TimeSeries) IsScored() bool {
	return ts.MarketChange != nil && ts.SentimentVolatility != nil && ts.RiskScore != nil
}

// Clone returns a deep copy; nil columns stay nil
func (ts *TimeSeries) Clone() *TimeSeries {
	return &TimeSeries{
		Ticker:              ts.Ticker,
		Dates:               cloneSlice(ts.Dates),
		MarketPrice:         cloneSlice(ts.MarketPrice),
		SentimentScore:      cloneSlice(ts.SentimentScore),
		PolicyShock:         cloneSlice(ts.PolicyShock),
		MarketChange:        cloneSlice(ts.MarketChange),
		SentimentVolatility: cloneSlice(ts.SentimentVolatility),
		RiskScore:           cloneSlice(ts.RiskScore),
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// ShockDays returns the ascending row indices flagged as policy shocks
func (ts *TimeSeries) ShockDays() []int {
	days := make([]int, 0)
	for i, shocked := range ts.PolicyShock {
		if shocked {
			days = append(days, i)
		}
	}
	return days
}

// ShockValue returns policy_shock[i] as the 0/1 indicator used by the score
func (ts *TimeSeries) ShockValue(i int) float64 {
	if ts.PolicyShock[i] {
		return 1
	}
	return 0
}

// Validate checks the structural invariants of whatever columns are present:
// aligned lengths, strictly increasing dates, finite prices, sentiment in [-1, 1].
func (ts *TimeSeries) Validate() error {
	if ts.Dates == nil {
		return MissingColumn(ColDate)
	}
	if ts.MarketPrice == nil {
		return MissingColumn(ColMarketPrice)
	}
	if err := ts.CheckAligned(); err != nil {
		return err
	}

	for i := 1; i < len(ts.Dates); i++ {
		if !ts.Dates[i].After(ts.Dates[i-1]) {
			return fmt.Errorf("%w: %s not strictly increasing at row %d",
				ErrInvalidParameter, ColDate, i)
		}
	}
	for i, p := range ts.MarketPrice {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return NonFinite(ColMarketPrice, i)
		}
	}
	for i, s := range ts.SentimentScore {
		if s < -1 || s > 1 {
			return fmt.Errorf("%w: %s[%d]=%.4f outside [-1, 1]",
				ErrInvalidParameter, ColSentimentScore, i, s)
		}
	}
	return nil
}

// CheckAligned verifies every present column has Len() rows
func (ts *TimeSeries) CheckAligned() error {
	n := ts.Len()
	lengths := []struct {
		name string
		n    int
		ok   bool
	}{
		{ColMarketPrice, len(ts.MarketPrice), ts.MarketPrice != nil},
		{ColSentimentScore, len(ts.SentimentScore), ts.SentimentScore != nil},
		{ColPolicyShock, len(ts.PolicyShock), ts.PolicyShock != nil},
		{ColMarketChange, len(ts.MarketChange), ts.MarketChange != nil},
		{ColSentimentVolatility, len(ts.SentimentVolatility), ts.SentimentVolatility != nil},
		{ColRiskScore, len(ts.RiskScore), ts.RiskScore != nil},
	}
	for _, l := range lengths {
		if l.ok && l.n != n {
			return Misaligned(l.name, l.n, n)
		}
	}
	return nil
}

// Rows returns a row view; absent columns read as zero values
func (ts *TimeSeries) Rows() []Record {
	rows := make([]Record, ts.Len())
	for i := range rows {
		var r Record
		if ts.Dates != nil {
			r.Date = ts.Dates[i]
		}
		if ts.MarketPrice != nil {
			r.MarketPrice = ts.MarketPrice[i]
		}
		if ts.SentimentScore != nil {
			r.SentimentScore = ts.SentimentScore[i]
		}
		if ts.PolicyShock != nil {
			r.PolicyShock = ts.PolicyShock[i]
		}
		if ts.MarketChange != nil {
			r.MarketChange = ts.MarketChange[i]
		}
		if ts.SentimentVolatility != nil {
			r.SentimentVolatility = ts.SentimentVolatility[i]
		}
		if ts.RiskScore != nil {
			r.RiskScore = ts.RiskScore[i]
		}
		rows[i] = r
	}
	return rows
}

// Summary describes a scored series. Risk fields stay zero when unscored.
func (ts *TimeSeries) Summary() Summary {
	s := Summary{
		Ticker:    ts.Ticker,
		Rows:      ts.Len(),
		ShockDays: ts.ShockDays(),
	}
	if ts.Len() == 0 {
		return s
	}
	if ts.Dates != nil {
		s.From = ts.Dates[0]
		s.To = ts.Dates[ts.Len()-1]
	}

	if len(ts.RiskScore) == 0 {
		return s
	}

	peak := 0
	s.MinRisk = ts.RiskScore[0]
	var sum float64
	for i, r := range ts.RiskScore {
		sum += r
		if r < s.MinRisk {
			s.MinRisk = r
		}
		if r > ts.RiskScore[peak] {
			peak = i
		}
	}
	s.MaxRisk = ts.RiskScore[peak]
	s.MeanRisk = sum / float64(len(ts.RiskScore))
	if ts.Dates != nil {
		s.PeakDate = ts.Dates[peak]
	}
	if ts.PolicyShock != nil {
		s.PeakIsShock = ts.PolicyShock[peak]
	}
	return s
}

// SortByDate orders every present column by date ascending
// 외부 소스(CSV)는 역순으로 들어올 수 있음
func (ts *TimeSeries) SortByDate() error {
	if ts.Dates == nil {
		return MissingColumn(ColDate)
	}
	if err := ts.CheckAligned(); err != nil {
		return err
	}

	idx := make([]int, ts.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return ts.Dates[idx[a]].Before(ts.Dates[idx[b]])
	})

	ts.Dates = permute(ts.Dates, idx)
	ts.MarketPrice = permute(ts.MarketPrice, idx)
	ts.SentimentScore = permute(ts.SentimentScore, idx)
	ts.PolicyShock = permute(ts.PolicyShock, idx)
	ts.MarketChange = permute(ts.MarketChange, idx)
	ts.SentimentVolatility = permute(ts.SentimentVolatility, idx)
	ts.RiskScore = permute(ts.RiskScore, idx)
	return nil
}

func permute[T any](s []T, idx []int) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}
