package risk

import (
	"fmt"

	"github.com/wonny/riskscope/internal/contracts"
)

// Engine 리스크 엔진 (순수 계산기)
// ⭐ SSOT: 데이터 수집/렌더링은 상위 레이어(pipeline, api)에서 조립
// internal/risk는 순수 계산만 담당
type Engine struct {
	confidence float64
	returnType ReturnType
}

// NewEngine 기본 설정(95%, log return) 엔진
func NewEngine() *Engine {
	return &Engine{confidence: DefaultConfidence, returnType: ReturnLog}
}

// WithConfidence returns a copy using the given VaR confidence
func (e *Engine) WithConfidence(confidence float64) *Engine {
	cp := *e
	cp.confidence = confidence
	return &cp
}

// Score see package-level Score
func (e *Engine) Score(ts *contracts.TimeSeries) (*contracts.TimeSeries, error) {
	return Score(ts)
}

// Tail summarizes the market tail of ts.
// risk_score percentiles are included when ts is already scored.
func (e *Engine) Tail(ts *contracts.TimeSeries) (*TailReport, error) {
	if ts.MarketPrice == nil {
		return nil, contracts.MissingColumn(contracts.ColMarketPrice)
	}
	if e.confidence <= 0 || e.confidence >= 1 {
		return nil, fmt.Errorf("%w: confidence=%v outside (0, 1)",
			contracts.ErrInvalidParameter, e.confidence)
	}

	returns := CalculateReturns(ts.MarketPrice, e.returnType)
	if len(returns) == 0 {
		return nil, fmt.Errorf("%w: no daily returns in %d prices",
			contracts.ErrInsufficientLength, len(ts.MarketPrice))
	}

	report := &TailReport{
		ReturnType: e.returnType,
		Samples:    len(returns),
		MeanReturn: CalculateMean(returns),
		Volatility: CalculateVolatility(returns),
		VaR:        CalculateVaR(returns, e.confidence),
	}
	if ts.IsScored() {
		report.RiskPercentile = CalculatePercentiles(ts.RiskScore, SummaryPercentiles)
	}

	return report, nil
}
