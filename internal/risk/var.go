package risk

import (
	"math"
	"sort"
)

// =============================================================================
// Returns
// =============================================================================

// CalculateReturns daily returns of a price path (len = len(prices)-1).
// Non-positive prices have no log return and are skipped.
func CalculateReturns(prices []float64, rt ReturnType) []float64 {
	if len(prices) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev, cur := prices[i-1], prices[i]
		switch rt {
		case ReturnLog:
			if prev <= 0 || cur <= 0 {
				continue
			}
			returns = append(returns, math.Log(cur/prev))
		default:
			if prev == 0 {
				continue
			}
			returns = append(returns, (cur-prev)/prev)
		}
	}
	return returns
}

// =============================================================================
// VaR (Historical Simulation)
// =============================================================================

// CalculateVaR 과거 수익률 기반 VaR
// returns: 양수=이익, 음수=손실
// confidence: 0.95, 0.99 ...
func CalculateVaR(returns []float64, confidence float64) VaRResult {
	if len(returns) == 0 {
		return VaRResult{Confidence: confidence}
	}

	sorted := sortedCopy(returns)

	// 95% VaR = 하위 5% 지점
	idx := int(math.Floor((1.0 - confidence) * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return VaRResult{
		Confidence: confidence,
		VaR:        lossOf(sorted[idx]),
		CVaR:       CalculateCVaR(sorted, idx),
	}
}

// CalculateCVaR tail 평균 손실 (sorted[0..varIdx])
func CalculateCVaR(sorted []float64, varIdx int) float64 {
	if len(sorted) == 0 || varIdx < 0 {
		return 0
	}
	if varIdx >= len(sorted) {
		varIdx = len(sorted) - 1
	}
	return lossOf(CalculateMean(sorted[:varIdx+1]))
}

// lossOf: 손실이면 양수, 이익이면 0
func lossOf(r float64) float64 {
	if r < 0 {
		return -r
	}
	return 0
}

// =============================================================================
// 통계 유틸리티
// =============================================================================

// CalculateMean 평균
func CalculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// CalculateVolatility 표본 표준편차 (n-1)
func CalculateVolatility(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := CalculateMean(values)
	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// CalculatePercentiles 선형 보간 백분위수 (ps: 0..100)
func CalculatePercentiles(values []float64, ps []int) map[int]float64 {
	if len(values) == 0 || len(ps) == 0 {
		return nil
	}

	sorted := sortedCopy(values)
	out := make(map[int]float64, len(ps))
	for _, p := range ps {
		out[p] = percentile(sorted, float64(p))
	}
	return out
}

func percentile(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	idx := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}
