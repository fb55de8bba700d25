package marketdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/riskscope/internal/contracts"
)

func TestLoadCSV_PriceOnly(t *testing.T) {
	data := `Date,Market_Price
2023-01-03,3824.14
2023-01-04,3852.97
2023-01-05,3808.10
`
	ts, err := LoadCSV(strings.NewReader(data), "^GSPC")
	require.NoError(t, err)

	assert.Equal(t, "^GSPC", ts.Ticker)
	assert.Equal(t, 3, ts.Len())
	assert.Equal(t, []float64{3824.14, 3852.97, 3808.10}, ts.MarketPrice)
	assert.Nil(t, ts.SentimentScore)
	assert.Nil(t, ts.PolicyShock)
	assert.True(t, ts.Dates[0].Equal(time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)))
}

func TestLoadCSV_DropsNonNumericPrices(t *testing.T) {
	// yfinance 다중 헤더 행 + 빈 가격
	data := `Date,Close
Ticker,^GSPC
2023-01-03 00:00:00-05:00,3824.14
2023-01-04 00:00:00-05:00,
2023-01-05 00:00:00-05:00,3808.10
`
	ts, err := LoadCSV(strings.NewReader(data), "^GSPC")
	require.NoError(t, err)

	assert.Equal(t, 2, ts.Len())
	assert.Equal(t, []float64{3824.14, 3808.10}, ts.MarketPrice)
}

func TestLoadCSV_AllColumnsAndSort(t *testing.T) {
	data := `date,market_price,sentiment_score,policy_shock
2024-01-03,101.5,0.2,1
2024-01-01,100.0,-0.5,0
2024-01-02,100.7,0.0,false
`
	ts, err := LoadCSV(strings.NewReader(data), "X")
	require.NoError(t, err)

	assert.Equal(t, []float64{100.0, 100.7, 101.5}, ts.MarketPrice)
	assert.Equal(t, []float64{-0.5, 0.0, 0.2}, ts.SentimentScore)
	assert.Equal(t, []bool{false, false, true}, ts.PolicyShock)
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"empty", "", contracts.ErrMissingColumn},
		{"no price column", "Date,Volume\n2023-01-03,100\n", contracts.ErrMissingColumn},
		{"no rows", "Date,Close\n", contracts.ErrInsufficientLength},
		{"bad date", "Date,Close\n03/01/2023,1\n", contracts.ErrInvalidParameter},
		{"bad shock", "Date,Close,Policy_Shock\n2023-01-03,1,maybe\n", contracts.ErrInvalidParameter},
		{"sentiment out of range", "Date,Close,Sentiment_Score\n2023-01-03,1,1.5\n", contracts.ErrInvalidParameter},
		{"duplicate dates", "Date,Close\n2023-01-03,1\n2023-01-03,2\n", contracts.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := LoadCSV(strings.NewReader(tt.data), "X")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, ts)
		})
	}
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "real_market_data.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Market_Price\n2023-01-03,3824.14\n2023-01-04,3852.97\n"), 0o644))

	ts, err := LoadCSVFile(path, "^GSPC")
	require.NoError(t, err)
	assert.Equal(t, 2, ts.Len())

	_, err = LoadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), "^GSPC")
	assert.Error(t, err)
}

func TestParseShock(t *testing.T) {
	for _, s := range []string{"1", "1.0", "true", "TRUE"} {
		v, err := ParseShock(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"0", "0.0", "false", ""} {
		v, err := ParseShock(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseShock("2")
	assert.Error(t, err)
}
