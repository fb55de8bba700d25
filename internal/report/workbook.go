package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/riskscope/internal/contracts"
)

// Sheet names
const (
	SeriesSheet  = "Series"
	ChartsSheet  = "Charts"
	SummarySheet = "Summary"
)

// 차트 크기 (px) 및 배치 간격 (행)
const (
	chartWidth   = 960
	chartHeight  = 300
	chartRowStep = 16
)

// markerHeader helper column: sentiment on shock rows, blank elsewhere
const markerHeader = "shock_marker"

// WriteWorkbook renders a scored series to an XLSX file at path:
// a data sheet, a three-panel chart sheet and a summary sheet.
// ts is only read.
func WriteWorkbook(path string, ts *contracts.TimeSeries) error {
	for _, col := range []string{contracts.ColDate, contracts.ColMarketPrice, contracts.ColSentimentScore, contracts.ColPolicyShock, contracts.ColRiskScore} {
		if !ts.HasColumn(col) {
			return contracts.MissingColumn(col)
		}
	}
	if err := ts.CheckAligned(); err != nil {
		return err
	}
	if ts.Len() == 0 {
		return fmt.Errorf("%w: nothing to render", contracts.ErrInsufficientLength)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SeriesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	layout, err := writeSeriesSheet(f, ts)
	if err != nil {
		return err
	}
	if err := writeCharts(f, ts, layout); err != nil {
		return err
	}
	if err := writeSummarySheet(f, ts); err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// sheetLayout column letter per rendered column
type sheetLayout map[string]string

func writeSeriesSheet(f *excelize.File, ts *contracts.TimeSeries) (sheetLayout, error) {
	columns := append(ts.Columns(), markerHeader)
	layout := make(sheetLayout, len(columns))

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		layout[col] = name
		header[i] = col
	}
	if err := f.SetSheetRow(SeriesSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	values := columns[:len(columns)-1]
	for i := 0; i < ts.Len(); i++ {
		row := make([]interface{}, len(values))
		for j, col := range values {
			row[j] = cellValue(ts, col, i)
		}
		if err := f.SetSheetRow(SeriesSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	// 충격일만 값 기록 (나머지는 빈 셀 → 차트에서 gap)
	for _, day := range ts.ShockDays() {
		cell := fmt.Sprintf("%s%d", layout[markerHeader], day+2)
		if err := f.SetCellFloat(SeriesSheet, cell, ts.SentimentScore[day], -1, 64); err != nil {
			return nil, fmt.Errorf("write shock marker: %w", err)
		}
	}

	return layout, nil
}

func cellValue(ts *contracts.TimeSeries, col string, i int) interface{} {
	switch col {
	case contracts.ColDate:
		return ts.Dates[i].Format(contracts.DateLayout)
	case contracts.ColMarketPrice:
		return ts.MarketPrice[i]
	case contracts.ColSentimentScore:
		return ts.SentimentScore[i]
	case contracts.ColPolicyShock:
		return int(ts.ShockValue(i))
	case contracts.ColMarketChange:
		return ts.MarketChange[i]
	case contracts.ColSentimentVolatility:
		return ts.SentimentVolatility[i]
	case contracts.ColRiskScore:
		return ts.RiskScore[i]
	default:
		return nil
	}
}

func writeCharts(f *excelize.File, ts *contracts.TimeSeries, layout sheetLayout) error {
	if _, err := f.NewSheet(ChartsSheet); err != nil {
		return fmt.Errorf("create chart sheet: %w", err)
	}

	last := ts.Len() + 1
	ref := func(col string) string {
		c := layout[col]
		return fmt.Sprintf("%s!$%s$2:$%s$%d", SeriesSheet, c, c, last)
	}
	categories := ref(contracts.ColDate)

	panels := []*excelize.Chart{
		lineChart("Market Price Over Time", "Price", excelize.ChartSeries{
			Name:       "Market Price",
			Categories: categories,
			Values:     ref(contracts.ColMarketPrice),
			Marker:     excelize.ChartMarker{Symbol: "none"},
		}),
		lineChart("Sentiment Score with Policy Shocks", "Sentiment",
			excelize.ChartSeries{
				Name:       "Sentiment Score",
				Categories: categories,
				Values:     ref(contracts.ColSentimentScore),
				Marker:     excelize.ChartMarker{Symbol: "none"},
			},
			excelize.ChartSeries{
				Name:       "Policy Shock",
				Categories: categories,
				Values:     ref(markerHeader),
				Marker:     excelize.ChartMarker{Symbol: "circle", Size: 8},
			},
		),
		lineChart("Calculated Risk Score", "Risk Score", excelize.ChartSeries{
			Name:       "Risk Score",
			Categories: categories,
			Values:     ref(contracts.ColRiskScore),
			Marker:     excelize.ChartMarker{Symbol: "none"},
		}),
	}

	for i, chart := range panels {
		cell := fmt.Sprintf("A%d", 1+i*chartRowStep)
		if err := f.AddChart(ChartsSheet, cell, chart); err != nil {
			return fmt.Errorf("add chart %q: %w", chart.Title[0].Text, err)
		}
	}
	return nil
}

func lineChart(title, yTitle string, series ...excelize.ChartSeries) *excelize.Chart {
	return &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: yTitle}},
		},
		Dimension:    excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
		ShowBlanksAs: "gap",
	}
}

func writeSummarySheet(f *excelize.File, ts *contracts.TimeSeries) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	s := ts.Summary()
	rows := [][]interface{}{
		{"ticker", s.Ticker},
		{"rows", s.Rows},
		{"from", s.From.Format(contracts.DateLayout)},
		{"to", s.To.Format(contracts.DateLayout)},
		{"shock_days", len(s.ShockDays)},
		{"min_risk", s.MinRisk},
		{"max_risk", s.MaxRisk},
		{"mean_risk", s.MeanRisk},
		{"peak_date", s.PeakDate.Format(contracts.DateLayout)},
		{"peak_is_shock", s.PeakIsShock},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
