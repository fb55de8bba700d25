package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/generator"
)

func fixture() *contracts.TimeSeries {
	return &contracts.TimeSeries{
		Ticker:         "TEST",
		Dates:          generator.DateRange(generator.Epoch, 4),
		MarketPrice:    []float64{100, 102, 101, 105},
		SentimentScore: []float64{0, 0.5, 0.25, -0.25},
		PolicyShock:    []bool{false, true, false, false},
	}
}

func TestGradient_Boundary(t *testing.T) {
	got := Gradient([]float64{100, 102, 101, 105})
	assert.Equal(t, []float64{2, 0.5, 1.5, 4}, got)
}

func TestGradient_TwoPoints(t *testing.T) {
	assert.Equal(t, []float64{3, 3}, Gradient([]float64{1, 4}))
	assert.Nil(t, Gradient([]float64{1}))
	assert.Nil(t, Gradient(nil))
}

func TestScore_Columns(t *testing.T) {
	out, err := Score(fixture())
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 0.5, 1.5, 4}, out.MarketChange)
	assert.InDeltaSlice(t, []float64{0.5, 0.125, 0.375, 0.5}, out.SentimentVolatility, 1e-12)
	assert.True(t, out.IsScored())
}

func TestScore_CompositeExact(t *testing.T) {
	ts, err := generator.Generate(100, 42)
	require.NoError(t, err)

	out, err := Score(ts)
	require.NoError(t, err)

	for i := 0; i < out.Len(); i++ {
		want := float64(0.4*out.SentimentVolatility[i]) + float64(0.4*out.MarketChange[i]) + float64(0.2*ts.ShockValue(i))
		assert.Equal(t, want, out.RiskScore[i], "row %d", i)
	}
}

func TestScore_NonNegative(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		ts, err := generator.Generate(120, seed)
		require.NoError(t, err)

		out, err := Score(ts)
		require.NoError(t, err)

		for i := 0; i < out.Len(); i++ {
			assert.GreaterOrEqual(t, out.MarketChange[i], 0.0)
			assert.GreaterOrEqual(t, out.SentimentVolatility[i], 0.0)
			assert.GreaterOrEqual(t, out.RiskScore[i], 0.0)
		}
	}
}

func TestScore_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := in.Clone()

	out, err := Score(in)
	require.NoError(t, err)

	assert.Equal(t, before, in)
	assert.Nil(t, in.RiskScore)

	// 결과 수정이 입력에 새지 않아야 함
	out.MarketPrice[0] = -1
	assert.Equal(t, 100.0, in.MarketPrice[0])
}

func TestScore_ShockAddsWeight(t *testing.T) {
	ts := &contracts.TimeSeries{
		MarketPrice:    []float64{10, 10, 10},
		SentimentScore: []float64{0.1, 0.1, 0.1},
		PolicyShock:    []bool{false, true, false},
	}

	out, err := Score(ts)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, WeightShock, 0}, out.RiskScore)
}

func TestScore_Scenario50Seed7(t *testing.T) {
	ts, err := generator.Generate(50, 7)
	require.NoError(t, err)

	out, err := Score(ts)
	require.NoError(t, err)

	assert.Equal(t, 50, out.Len())
	assert.Len(t, out.RiskScore, 50)
	assert.Len(t, out.ShockDays(), 3)
	require.NoError(t, out.Validate())
}

func TestScore_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(ts *contracts.TimeSeries)
		wantErr error
	}{
		{
			name:    "missing policy_shock",
			mutate:  func(ts *contracts.TimeSeries) { ts.PolicyShock = nil },
			wantErr: contracts.ErrMissingColumn,
		},
		{
			name:    "missing sentiment_score",
			mutate:  func(ts *contracts.TimeSeries) { ts.SentimentScore = nil },
			wantErr: contracts.ErrMissingColumn,
		},
		{
			name:    "missing market_price",
			mutate:  func(ts *contracts.TimeSeries) { ts.MarketPrice = nil },
			wantErr: contracts.ErrMissingColumn,
		},
		{
			name:    "misaligned sentiment",
			mutate:  func(ts *contracts.TimeSeries) { ts.SentimentScore = ts.SentimentScore[:3] },
			wantErr: contracts.ErrMisaligned,
		},
		{
			name: "single row",
			mutate: func(ts *contracts.TimeSeries) {
				ts.Dates = ts.Dates[:1]
				ts.MarketPrice = ts.MarketPrice[:1]
				ts.SentimentScore = ts.SentimentScore[:1]
				ts.PolicyShock = ts.PolicyShock[:1]
			},
			wantErr: contracts.ErrInsufficientLength,
		},
		{
			name: "NaN price",
			mutate: func(ts *contracts.TimeSeries) {
				ts.MarketPrice[2] = nan()
			},
			wantErr: contracts.ErrNonFinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := fixture()
			tt.mutate(ts)

			out, err := Score(ts)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, out, "no partial output")
		})
	}
}

func TestScore_MissingColumnNamed(t *testing.T) {
	ts := fixture()
	ts.PolicyShock = nil

	_, err := Score(ts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), contracts.ColPolicyShock)
}

func TestScore_WithoutDates(t *testing.T) {
	ts := fixture()
	ts.Dates = nil

	out, err := Score(ts)
	require.NoError(t, err)
	assert.Len(t, out.RiskScore, 4)

	// 행 뷰와 요약도 가격 길이 기준
	assert.Equal(t, 4, out.Len())
	rows := out.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, out.RiskScore[3], rows[3].RiskScore)
	assert.True(t, rows[0].Date.IsZero())

	summary := out.Summary()
	assert.Equal(t, 4, summary.Rows)
	assert.Equal(t, []int{1}, summary.ShockDays)
	assert.Equal(t, out.RiskScore[3], summary.MaxRisk)
	assert.True(t, summary.PeakDate.IsZero())

	ts.PolicyShock = ts.PolicyShock[:2]
	_, err = Score(ts)
	assert.ErrorIs(t, err, contracts.ErrMisaligned)
}

func TestScore_Idempotent(t *testing.T) {
	first, err := Score(fixture())
	require.NoError(t, err)

	second, err := Score(first)
	require.NoError(t, err)

	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.True(t, first.Dates[0].Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}
