package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/generator"
	"github.com/wonny/riskscope/internal/risk"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerate_Stdout(t *testing.T) {
	out, err := execute(t, "generate", "--days", "40", "--seed", "3", "--out", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 41)
	assert.Equal(t, "date,market_price,sentiment_score,policy_shock", lines[0])
}

func TestGenerate_TooFewDays(t *testing.T) {
	_, err := execute(t, "generate", "--days", "10", "--out", "-")
	assert.ErrorContains(t, err, "invalid parameter")
}

func TestScore_CSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(in, []byte("date,close\n2024-01-01,100\n2024-01-02,102\n2024-01-03,101\n2024-01-04,105\n"), 0o644))

	out := filepath.Join(dir, "scored.csv")
	stdout, err := execute(t, "score", "--in", in, "--out", out, "--shock-fraction", "0.25")
	require.NoError(t, err)
	assert.Contains(t, stdout, "prices")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasSuffix(lines[0], "risk_score"))
}

func TestScenarioValidate(t *testing.T) {
	out, err := execute(t, "scenario", "validate", filepath.Join("..", "..", "..", "configs", "scenarios", "sp500_real.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "sp500_real")
	assert.Contains(t, out, "valid")
}

func TestPrintTableRow(t *testing.T) {
	var buf bytes.Buffer
	PrintTableHeader(&buf, []string{"a", "b"}, []int{3, 2})
	PrintTableRow(&buf, []string{"x", "y"}, []int{3, 2})

	assert.Equal(t, "a    b \n───────\nx    y \n", buf.String())
}

func TestPrintShockTable(t *testing.T) {
	ts := &contracts.TimeSeries{
		Dates:          generator.DateRange(generator.Epoch, 3),
		MarketPrice:    []float64{10, 11, 12},
		SentimentScore: []float64{0, 0.5, 0},
		PolicyShock:    []bool{false, true, false},
	}
	scored, err := risk.Score(ts)
	require.NoError(t, err)

	tests := []struct {
		name     string
		dateless bool
		want     string
	}{
		{"with dates", false, scored.Dates[1].Format(contracts.DateLayout)},
		{"without dates", true, "#1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scored.Clone()
			if tt.dateless {
				in.Dates = nil
			}

			var buf bytes.Buffer
			PrintShockTable(&buf, in)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 3, "header, rule, one shock row")
			assert.True(t, strings.HasPrefix(lines[2], tt.want), lines[2])
			assert.Contains(t, lines[2], "11.00")
		})
	}
}
