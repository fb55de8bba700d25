package scenario

// Source kinds
const (
	SourceSynthetic = "synthetic"
	SourceCSV       = "csv"
	SourceRemote    = "remote"
)

// Scenario는 파이프라인 1회 실행의 전체 설정
type Scenario struct {
	Meta    Meta    `yaml:"meta" json:"meta"`
	Source  Source  `yaml:"source" json:"source"`
	Overlay Overlay `yaml:"overlay" json:"overlay"`
	Output  Output  `yaml:"output" json:"output"`
}

// Meta 메타 정보
type Meta struct {
	ScenarioID  string `yaml:"scenario_id" json:"scenario_id"`
	Description string `yaml:"description" json:"description"`
}

// Source 입력 시계열
type Source struct {
	Kind    string `yaml:"kind" json:"kind"` // synthetic | csv | remote
	NumDays int    `yaml:"num_days" json:"num_days"`
	Seed    int64  `yaml:"seed" json:"seed"`
	CSVPath string `yaml:"csv_path" json:"csv_path"`
	Ticker  string `yaml:"ticker" json:"ticker"`
	From    string `yaml:"from" json:"from"` // YYYY-MM-DD
	To      string `yaml:"to" json:"to"`     // YYYY-MM-DD, exclusive
}

// Overlay 실데이터에 합성 sentiment/shock을 덧씌울 때의 설정
type Overlay struct {
	Seed          int64   `yaml:"seed" json:"seed"`
	ShockFraction float64 `yaml:"shock_fraction" json:"shock_fraction"`
}

// Output 렌더링 대상 (빈 값이면 생략)
type Output struct {
	Dir      string `yaml:"dir" json:"dir"`
	Workbook string `yaml:"workbook" json:"workbook"`
	CSV      string `yaml:"csv" json:"csv"`
}

// Default returns the 100-day / seed 42 synthetic run
func Default() Scenario {
	return Scenario{
		Meta: Meta{ScenarioID: "synthetic_default"},
		Source: Source{
			Kind:    SourceSynthetic,
			NumDays: 100,
			Seed:    42,
			Ticker:  "^GSPC",
			From:    "2023-01-01",
			To:      "2024-04-01",
		},
		Overlay: Overlay{
			Seed:          42,
			ShockFraction: 0.05,
		},
		Output: Output{
			Dir:      "outputs",
			Workbook: "risk_model_output.xlsx",
		},
	}
}
