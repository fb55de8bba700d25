package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wonny/riskscope/internal/contracts"
)

// WriteCSV writes every present column of ts, header first.
// ts is only read.
func WriteCSV(w io.Writer, ts *contracts.TimeSeries) error {
	if ts.Dates == nil {
		return contracts.MissingColumn(contracts.ColDate)
	}
	if err := ts.CheckAligned(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	columns := ts.Columns()
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(columns))
	for i := 0; i < ts.Len(); i++ {
		for j, col := range columns {
			record[j] = formatCell(ts, col, i)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes ts to path, creating parent directories
func WriteCSVFile(path string, ts *contracts.TimeSeries) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, ts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatCell(ts *contracts.TimeSeries, col string, i int) string {
	switch col {
	case contracts.ColDate:
		return ts.Dates[i].Format(contracts.DateLayout)
	case contracts.ColMarketPrice:
		return formatFloat(ts.MarketPrice[i])
	case contracts.ColSentimentScore:
		return formatFloat(ts.SentimentScore[i])
	case contracts.ColPolicyShock:
		return strconv.Itoa(int(ts.ShockValue(i)))
	case contracts.ColMarketChange:
		return formatFloat(ts.MarketChange[i])
	case contracts.ColSentimentVolatility:
		return formatFloat(ts.SentimentVolatility[i])
	case contracts.ColRiskScore:
		return formatFloat(ts.RiskScore[i])
	default:
		return ""
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return nil
}
