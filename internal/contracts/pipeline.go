package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 메트릭 라벨, 에러 래핑에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   load → score → render
//   Source  Risk Scorer  Sinks

// Stage represents a pipeline stage
type Stage string

const (
	// StageLoad: 시계열 확보
	// 책임: 합성 생성, CSV 로드, 원격 시세 조회 + overlay
	// 위치: internal/generator/, internal/marketdata/
	StageLoad Stage = "load"

	// StageScore: 리스크 점수 산출
	// 책임: market_change, sentiment_volatility, risk_score 컬럼 추가
	// 위치: internal/risk/
	StageScore Stage = "score"

	// StageRender: 결과 출력
	// 책임: XLSX 차트, CSV
	// 위치: internal/report/
	StageRender Stage = "render"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// Description returns Korean description of the stage
func (s Stage) Description() string {
	switch s {
	case StageLoad:
		return "시계열 로드"
	case StageScore:
		return "리스크 점수 산출"
	case StageRender:
		return "결과 렌더링"
	default:
		return "알 수 없음"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageLoad,
		StageScore,
		StageRender,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageResult records one completed stage of a run
type StageResult struct {
	Stage    Stage  `json:"stage"`
	Rows     int    `json:"rows"`
	Duration int64  `json:"duration_ms"`
	Detail   string `json:"detail,omitempty"`
}
