package pipeline

import (
	"context"
	"io"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/report"
)

// WorkbookSink renders the three-panel XLSX report
type WorkbookSink struct {
	Path string
}

func (s WorkbookSink) Name() string { return s.Path }

func (s WorkbookSink) Write(ctx context.Context, ts *contracts.TimeSeries) error {
	return report.WriteWorkbook(s.Path, ts)
}

// CSVSink writes every column to a CSV file
type CSVSink struct {
	Path string
}

func (s CSVSink) Name() string { return s.Path }

func (s CSVSink) Write(ctx context.Context, ts *contracts.TimeSeries) error {
	return report.WriteCSVFile(s.Path, ts)
}

// WriterSink writes CSV to an open stream (stdout)
type WriterSink struct {
	Label string
	W     io.Writer
}

func (s WriterSink) Name() string { return s.Label }

func (s WriterSink) Write(ctx context.Context, ts *contracts.TimeSeries) error {
	return report.WriteCSV(s.W, ts)
}
