package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/riskscope/internal/contracts"
)

// Header aliases (case-insensitive)
// yfinance 저장 형식은 "Close" 또는 "Market_Price"
var headerAliases = map[string]string{
	"date":            contracts.ColDate,
	"market_price":    contracts.ColMarketPrice,
	"close":           contracts.ColMarketPrice,
	"sentiment_score": contracts.ColSentimentScore,
	"policy_shock":    contracts.ColPolicyShock,
}

// LoadCSVFile opens path and loads it with LoadCSV
func LoadCSVFile(path, ticker string) (*contracts.TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	ts, err := LoadCSV(f, ticker)
	if err != nil {
		return nil, fmt.Errorf("load csv %s: %w", path, err)
	}
	return ts, nil
}

// LoadCSV reads a header + rows table into a series.
// Rows whose price does not parse are dropped; any other bad cell is an error.
// The result is sorted by date and validated.
func LoadCSV(r io.Reader, ticker string) (*contracts.TimeSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, contracts.MissingColumn(contracts.ColDate)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := indexHeader(header)
	for _, required := range []string{contracts.ColDate, contracts.ColMarketPrice} {
		if _, ok := cols[required]; !ok {
			return nil, contracts.MissingColumn(required)
		}
	}
	sentIdx, hasSentiment := cols[contracts.ColSentimentScore]
	shockIdx, hasShock := cols[contracts.ColPolicyShock]

	ts := &contracts.TimeSeries{
		Ticker:      ticker,
		Dates:       []time.Time{},
		MarketPrice: []float64{},
	}
	if hasSentiment {
		ts.SentimentScore = []float64{}
	}
	if hasShock {
		ts.PolicyShock = []bool{}
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		price, ok := parsePrice(cell(record, cols[contracts.ColMarketPrice]))
		if !ok {
			continue
		}

		date, err := ParseDate(cell(record, cols[contracts.ColDate]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", contracts.ErrInvalidParameter, line, err)
		}

		ts.Dates = append(ts.Dates, date)
		ts.MarketPrice = append(ts.MarketPrice, price)

		if hasSentiment {
			s, err := strconv.ParseFloat(cell(record, sentIdx), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s=%q",
					contracts.ErrInvalidParameter, line, contracts.ColSentimentScore, cell(record, sentIdx))
			}
			ts.SentimentScore = append(ts.SentimentScore, s)
		}
		if hasShock {
			shock, err := ParseShock(cell(record, shockIdx))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", contracts.ErrInvalidParameter, line, err)
			}
			ts.PolicyShock = append(ts.PolicyShock, shock)
		}
	}

	if ts.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows with a numeric %s", contracts.ErrInsufficientLength, contracts.ColMarketPrice)
	}

	if err := ts.SortByDate(); err != nil {
		return nil, err
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := headerAliases[key]; ok {
			// 첫 번째 매칭 컬럼 우선 (Market_Price와 Close가 함께 있으면 앞쪽)
			if _, seen := cols[canonical]; !seen {
				cols[canonical] = i
			}
		}
	}
	return cols
}

func cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parsePrice: 숫자가 아니거나 유한하지 않으면 행 제외
func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseDate accepts a YYYY-MM-DD prefix (e.g. "2023-01-03 00:00:00-05:00")
func ParseDate(s string) (time.Time, error) {
	if len(s) < len(contracts.DateLayout) {
		return time.Time{}, fmt.Errorf("date %q: want %s", s, contracts.DateLayout)
	}
	return time.Parse(contracts.DateLayout, s[:len(contracts.DateLayout)])
}

// ParseShock accepts 0/1, true/false and 0.0/1.0
func ParseShock(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "1.0", "true":
		return true, nil
	case "0", "0.0", "false", "":
		return false, nil
	default:
		return false, fmt.Errorf("%s %q: want 0 or 1", contracts.ColPolicyShock, s)
	}
}
