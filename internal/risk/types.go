package risk

// ReturnType 수익률 계산 방식
type ReturnType string

const (
	ReturnSimple ReturnType = "simple" // (P1 - P0) / P0
	ReturnLog    ReturnType = "log"    // ln(P1 / P0)
)

// DefaultConfidence for the market tail line
const DefaultConfidence = 0.95

// SummaryPercentiles reported for the risk_score distribution
var SummaryPercentiles = []int{5, 25, 50, 75, 95}

// VaRResult historical VaR/CVaR
// ⭐ SSOT: 손실을 양수로 표현 (VaR=0.02 → 2% 일간 손실 가능)
type VaRResult struct {
	Confidence float64 `json:"confidence"`
	VaR        float64 `json:"var"`
	CVaR       float64 `json:"cvar"` // expected shortfall beyond VaR
}

// TailReport market tail next to the composite score.
// Read-only derivation: never becomes a series column.
type TailReport struct {
	ReturnType     ReturnType      `json:"return_type"`
	Samples        int             `json:"samples"`
	MeanReturn     float64         `json:"mean_return"`
	Volatility     float64         `json:"volatility"` // sample std-dev of daily returns
	VaR            VaRResult       `json:"var"`
	RiskPercentile map[int]float64 `json:"risk_percentiles,omitempty"` // risk_score distribution
}
