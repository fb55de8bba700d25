package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/pipeline"
	"github.com/wonny/riskscope/internal/risk"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const ruleWidth = 59

// PrintHeader prints a formatted command header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("═", ruleWidth))
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(w io.Writer, values []string, widths []int) {
	for i, val := range values {
		fmt.Fprintf(w, "%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)
}

// PrintSummary prints the key numbers of a scored series
func PrintSummary(w io.Writer, s contracts.Summary) {
	const kw = 12
	PrintKeyValue(w, "Ticker", s.Ticker, kw)
	PrintKeyValue(w, "Rows", fmt.Sprintf("%d", s.Rows), kw)
	if s.Rows > 0 {
		PrintKeyValue(w, "Period", fmt.Sprintf("%s ~ %s",
			s.From.Format(contracts.DateLayout), s.To.Format(contracts.DateLayout)), kw)
	}
	PrintKeyValue(w, "Shock days", fmt.Sprintf("%v", s.ShockDays), kw)
	PrintKeyValue(w, "Risk", fmt.Sprintf("min %.4f / mean %.4f / max %.4f", s.MinRisk, s.MeanRisk, s.MaxRisk), kw)
	if s.Rows > 0 {
		peak := s.PeakDate.Format(contracts.DateLayout)
		if s.PeakIsShock {
			peak += " (shock)"
		}
		PrintKeyValue(w, "Peak", peak, kw)
	}
}

// PrintTail prints the market tail summary
func PrintTail(w io.Writer, t *risk.TailReport) {
	if t == nil {
		return
	}
	const kw = 12
	PrintKeyValue(w, "Returns", fmt.Sprintf("%s, %d samples", t.ReturnType, t.Samples), kw)
	PrintKeyValue(w, "Volatility", fmt.Sprintf("%.4f (mean %.5f)", t.Volatility, t.MeanReturn), kw)
	PrintKeyValue(w, "VaR", fmt.Sprintf("%.4f @ %.0f%%, CVaR %.4f", t.VaR.VaR, t.VaR.Confidence*100, t.VaR.CVaR), kw)
	for _, p := range risk.SummaryPercentiles {
		if v, ok := t.RiskPercentile[p]; ok {
			PrintKeyValue(w, fmt.Sprintf("Risk p%d", p), fmt.Sprintf("%.4f", v), kw)
		}
	}
}

// PrintShockTable prints risk around each shock day
func PrintShockTable(w io.Writer, ts *contracts.TimeSeries) {
	widths := []int{12, 10, 10, 10, 10}
	PrintTableHeader(w, []string{"date", "price", "sentiment", "change", "risk"}, widths)
	rows := ts.Rows()
	for _, i := range ts.ShockDays() {
		r := rows[i]
		date := fmt.Sprintf("#%d", i) // date 없는 시계열은 행 번호
		if !r.Date.IsZero() {
			date = r.Date.Format(contracts.DateLayout)
		}
		PrintTableRow(w, []string{
			date,
			fmt.Sprintf("%.2f", r.MarketPrice),
			fmt.Sprintf("%+.3f", r.SentimentScore),
			fmt.Sprintf("%.3f", r.MarketChange),
			fmt.Sprintf("%.4f", r.RiskScore),
		}, widths)
	}
}

// PrintRunResult prints a completed run
func PrintRunResult(w io.Writer, result *pipeline.RunResult) {
	PrintSummary(w, result.Summary)
	PrintTail(w, result.Tail)
	if result.Series != nil && len(result.Summary.ShockDays) > 0 {
		PrintSeparator(w)
		PrintShockTable(w, result.Series)
	}
	PrintSeparator(w)
	for _, s := range result.Stages {
		PrintKeyValue(w, s.Stage.String(), fmt.Sprintf("%d rows, %dms, %s", s.Rows, s.Duration, s.Detail), 12)
	}
	for _, out := range result.Outputs {
		PrintSuccess(w, "Wrote "+out)
	}
}
