package pipeline

import (
	"context"
	"time"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/generator"
	"github.com/wonny/riskscope/internal/marketdata"
)

// SyntheticSource generates a series with the signal generator
type SyntheticSource struct {
	NumDays int
	Seed    int64
}

func (s SyntheticSource) Kind() string { return "synthetic" }

func (s SyntheticSource) Load(ctx context.Context) (*contracts.TimeSeries, error) {
	return generator.Generate(s.NumDays, s.Seed)
}

// CSVSource loads a local CSV; missing sentiment/shock columns get the overlay
type CSVSource struct {
	Path    string
	Ticker  string
	Overlay generator.OverlayOptions
}

func (s CSVSource) Kind() string { return "csv" }

func (s CSVSource) Load(ctx context.Context) (*contracts.TimeSeries, error) {
	ts, err := marketdata.LoadCSVFile(s.Path, s.Ticker)
	if err != nil {
		return nil, err
	}
	return withOverlay(ts, s.Overlay)
}

// MarketFetcher is satisfied by *marketdata.Fetcher
type MarketFetcher interface {
	Fetch(ctx context.Context, ticker string, from, to time.Time) (*contracts.TimeSeries, error)
}

// RemoteSource downloads daily closes and applies the overlay
type RemoteSource struct {
	Fetcher MarketFetcher
	Ticker  string
	From    time.Time
	To      time.Time
	Overlay generator.OverlayOptions
}

func (s RemoteSource) Kind() string { return "remote" }

func (s RemoteSource) Load(ctx context.Context) (*contracts.TimeSeries, error) {
	ts, err := s.Fetcher.Fetch(ctx, s.Ticker, s.From, s.To)
	if err != nil {
		return nil, err
	}
	return withOverlay(ts, s.Overlay)
}

// withOverlay: 두 컬럼이 이미 있으면 그대로 통과
func withOverlay(ts *contracts.TimeSeries, opts generator.OverlayOptions) (*contracts.TimeSeries, error) {
	if ts.SentimentScore != nil && ts.PolicyShock != nil {
		return ts, nil
	}
	return generator.Overlay(ts, opts)
}
