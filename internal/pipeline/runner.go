package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/risk"
	"github.com/wonny/riskscope/pkg/logger"
	"github.com/wonny/riskscope/pkg/metrics"
)

// Runner coordinates load → score → render
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Runner struct {
	source  contracts.Source
	sinks   []contracts.Sink
	engine  *risk.Engine
	metrics *metrics.Recorder
	logger  *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID        string // 비어 있으면 새 UUID
	ScenarioID   string
	ScenarioHash string
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID           string                  `json:"run_id"`
	ScenarioID      string                  `json:"scenario_id,omitempty"`
	ScenarioHash    string                  `json:"scenario_hash,omitempty"`
	Source          string                  `json:"source"`
	Success         bool                    `json:"success"`
	Error           error                   `json:"-"`
	CompletedStages []string                `json:"completed_stages"`
	Stages          []contracts.StageResult `json:"stages"`
	Series          *contracts.TimeSeries   `json:"series,omitempty"`
	Summary         contracts.Summary       `json:"summary"`
	Tail            *risk.TailReport        `json:"tail,omitempty"`
	Outputs         []string                `json:"outputs,omitempty"`
	Duration        time.Duration           `json:"duration"`
}

// NewRunner creates a new runner. rec may be nil.
func NewRunner(source contracts.Source, sinks []contracts.Sink, rec *metrics.Recorder, log *logger.Logger) *Runner {
	return &Runner{
		source:  source,
		sinks:   sinks,
		engine:  risk.NewEngine(),
		metrics: rec,
		logger:  log.WithComponent("pipeline"),
	}
}

// Run executes the pipeline. Any stage failure stops the run;
// the error is wrapped with the stage name and also kept in the result.
func (r *Runner) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	if config.RunID == "" {
		config.RunID = uuid.New().String()
	}

	result := &RunResult{
		RunID:           config.RunID,
		ScenarioID:      config.ScenarioID,
		ScenarioHash:    config.ScenarioHash,
		Source:          r.source.Kind(),
		CompletedStages: make([]string, 0, len(contracts.AllStages())),
	}

	log := r.logger.WithFields(map[string]interface{}{
		"run_id": config.RunID,
		"source": r.source.Kind(),
	})
	if config.ScenarioID != "" {
		log = log.WithField("scenario_id", config.ScenarioID)
	}
	log.Info("Starting pipeline run")

	fail := func(stage contracts.Stage, err error) (*RunResult, error) {
		result.Error = fmt.Errorf("%s failed: %w", stage, err)
		result.Duration = time.Since(startTime)
		r.metrics.RecordRun(r.source.Kind(), metrics.OutcomeFailure)
		log.WithError(err).WithField("stage", stage.String()).Error("Pipeline run failed")
		return result, result.Error
	}

	// load
	series, err := r.stage(ctx, result, contracts.StageLoad, func() (*contracts.TimeSeries, string, error) {
		ts, err := r.source.Load(ctx)
		if err != nil {
			return nil, "", err
		}
		return ts, ts.Ticker, nil
	})
	if err != nil {
		return fail(contracts.StageLoad, err)
	}

	// score
	scored, err := r.stage(ctx, result, contracts.StageScore, func() (*contracts.TimeSeries, string, error) {
		ts, err := r.engine.Score(series)
		if err != nil {
			return nil, "", err
		}
		return ts, fmt.Sprintf("%d shocks", len(ts.ShockDays())), nil
	})
	if err != nil {
		return fail(contracts.StageScore, err)
	}
	result.Series = scored
	result.Summary = scored.Summary()
	r.metrics.RecordScored(scored.Ticker, scored.Len(), result.Summary.MaxRisk)

	// tail 요약은 부가 정보: 실패해도 런은 계속
	if tail, err := r.engine.Tail(scored); err != nil {
		log.WithError(err).Warn("market tail summary skipped")
	} else {
		result.Tail = tail
	}

	// render
	_, err = r.stage(ctx, result, contracts.StageRender, func() (*contracts.TimeSeries, string, error) {
		for _, sink := range r.sinks {
			if err := ctx.Err(); err != nil {
				return nil, "", err
			}
			if err := sink.Write(ctx, scored); err != nil {
				return nil, "", fmt.Errorf("%s: %w", sink.Name(), err)
			}
			result.Outputs = append(result.Outputs, sink.Name())
		}
		return scored, fmt.Sprintf("%d outputs", len(r.sinks)), nil
	})
	if err != nil {
		return fail(contracts.StageRender, err)
	}

	result.Success = true
	result.Duration = time.Since(startTime)
	r.metrics.RecordRun(r.source.Kind(), metrics.OutcomeSuccess)

	log.WithFields(map[string]interface{}{
		"ticker":     result.Summary.Ticker,
		"rows":       result.Summary.Rows,
		"shock_days": result.Summary.ShockDays,
		"max_risk":   result.Summary.MaxRisk,
		"peak_date":  result.Summary.PeakDate.Format(contracts.DateLayout),
		"outputs":    result.Outputs,
		"duration":   result.Duration.String(),
	}).Info("Pipeline run completed")

	return result, nil
}

// stage runs fn, timing it and recording it on success
func (r *Runner) stage(ctx context.Context, result *RunResult, stage contracts.Stage,
	fn func() (*contracts.TimeSeries, string, error)) (*contracts.TimeSeries, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	ts, detail, err := fn()
	elapsed := time.Since(start)
	r.metrics.RecordStage(stage.String(), elapsed)
	if err != nil {
		return nil, err
	}

	result.CompletedStages = append(result.CompletedStages, stage.String())
	result.Stages = append(result.Stages, contracts.StageResult{
		Stage:    stage,
		Rows:     ts.Len(),
		Duration: elapsed.Milliseconds(),
		Detail:   detail,
	})

	r.logger.WithFields(map[string]interface{}{
		"run_id":      result.RunID,
		"stage":       stage.String(),
		"rows":        ts.Len(),
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("Stage completed")

	return ts, nil
}
