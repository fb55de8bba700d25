package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/generator"
	"github.com/wonny/riskscope/internal/scenario"
)

// FromScenario builds the source and sinks described by a validated scenario.
// fetcher is only required for remote sources.
func FromScenario(sc *scenario.Scenario, fetcher MarketFetcher) (contracts.Source, []contracts.Sink, error) {
	if err := scenario.Validate(sc); err != nil {
		return nil, nil, err
	}

	overlay := generator.OverlayOptions{
		Seed:          sc.Overlay.Seed,
		ShockFraction: sc.Overlay.ShockFraction,
	}

	var source contracts.Source
	switch sc.Source.Kind {
	case scenario.SourceSynthetic:
		source = SyntheticSource{NumDays: sc.Source.NumDays, Seed: sc.Source.Seed}

	case scenario.SourceCSV:
		source = CSVSource{Path: sc.Source.CSVPath, Ticker: sc.Source.Ticker, Overlay: overlay}

	case scenario.SourceRemote:
		if fetcher == nil {
			return nil, nil, fmt.Errorf("%w: remote source requires a market fetcher", contracts.ErrInvalidParameter)
		}
		from, err := scenario.ParseDate(sc.Source.From)
		if err != nil {
			return nil, nil, err
		}
		to, err := scenario.ParseDate(sc.Source.To)
		if err != nil {
			return nil, nil, err
		}
		source = RemoteSource{
			Fetcher: fetcher,
			Ticker:  sc.Source.Ticker,
			From:    from,
			To:      to,
			Overlay: overlay,
		}

	default:
		return nil, nil, fmt.Errorf("%w: unknown source kind %q", contracts.ErrInvalidParameter, sc.Source.Kind)
	}

	var sinks []contracts.Sink
	if sc.Output.Workbook != "" {
		sinks = append(sinks, WorkbookSink{Path: filepath.Join(sc.Output.Dir, sc.Output.Workbook)})
	}
	if sc.Output.CSV != "" {
		sinks = append(sinks, CSVSink{Path: filepath.Join(sc.Output.Dir, sc.Output.CSV)})
	}

	return source, sinks, nil
}
