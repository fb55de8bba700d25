package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "riskscope"

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder records pipeline metrics on its own registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	runsTotal   *prometheus.CounterVec
	stageTime   *prometheus.HistogramVec
	peakRisk    *prometheus.GaugeVec
	rowsScored  *prometheus.CounterVec
	cacheLookup *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_runs_total",
				Help:      "Pipeline runs by source kind and outcome",
			},
			[]string{"source", "outcome"},
		),
		stageTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		peakRisk: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_peak_risk_score",
				Help:      "Peak risk_score of the last scored series per ticker",
			},
			[]string{"ticker"},
		),
		rowsScored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_scored_total",
				Help:      "Rows enriched by the risk scorer",
			},
			[]string{"ticker"},
		),
		cacheLookup: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "market_cache_lookups_total",
				Help:      "Market-data cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// RecordRun records one pipeline run
func (r *Recorder) RecordRun(source, outcome string) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(source, outcome).Inc()
}

// RecordStage records stage latency
func (r *Recorder) RecordStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageTime.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordScored records a scored series
func (r *Recorder) RecordScored(ticker string, rows int, peak float64) {
	if r == nil {
		return
	}
	r.rowsScored.WithLabelValues(ticker).Add(float64(rows))
	r.peakRisk.WithLabelValues(ticker).Set(peak)
}

// RecordCacheLookup records a market-data cache hit or miss
func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookup.WithLabelValues(result).Inc()
}

// Handler exposes the registry for /metrics
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry (tests, extra collectors)
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RunsTotal returns the run counter (tests read it via testutil.ToFloat64)
func (r *Recorder) RunsTotal() *prometheus.CounterVec {
	return r.runsTotal
}
