package scenario

import (
	"fmt"
	"math"
	"time"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/generator"
)

// MaxNumDays upper bound for synthetic series
const MaxNumDays = 20000

// ValidationError 검증 실패 (실행 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
func Validate(sc *Scenario) error {
	// === Meta ===
	if sc.Meta.ScenarioID == "" {
		return ValidationError{"meta.scenario_id", "required"}
	}

	// === Source ===
	switch sc.Source.Kind {
	case SourceSynthetic:
		if sc.Source.NumDays < generator.MinDays || sc.Source.NumDays > MaxNumDays {
			return ValidationError{"source.num_days",
				fmt.Sprintf("must be in [%d, %d], got %d", generator.MinDays, MaxNumDays, sc.Source.NumDays)}
		}
	case SourceCSV:
		if sc.Source.CSVPath == "" {
			return ValidationError{"source.csv_path", "required for kind=csv"}
		}
	case SourceRemote:
		if sc.Source.Ticker == "" {
			return ValidationError{"source.ticker", "required for kind=remote"}
		}
		from, err := ParseDate(sc.Source.From)
		if err != nil {
			return ValidationError{"source.from", err.Error()}
		}
		to, err := ParseDate(sc.Source.To)
		if err != nil {
			return ValidationError{"source.to", err.Error()}
		}
		if !to.After(from) {
			return ValidationError{"source", "to must be after from"}
		}
	default:
		return ValidationError{"source.kind",
			fmt.Sprintf("must be one of %s, %s, %s; got %q", SourceSynthetic, SourceCSV, SourceRemote, sc.Source.Kind)}
	}

	// === Overlay ===
	f := sc.Overlay.ShockFraction
	if math.IsNaN(f) || f < 0 || f > 1 {
		return ValidationError{"overlay.shock_fraction", "must be in [0, 1]"}
	}

	// === Output ===
	if (sc.Output.Workbook != "" || sc.Output.CSV != "") && sc.Output.Dir == "" {
		return ValidationError{"output.dir", "required when an output file is set"}
	}

	return nil
}

// Warn returns non-fatal recommendations
func Warn(sc *Scenario) []Warning {
	var warnings []Warning

	if sc.Source.Kind != SourceSynthetic && sc.Overlay.ShockFraction > 0.2 {
		warnings = append(warnings, Warning{
			Code:    "OVERLAY_SHOCK_DENSE",
			Message: fmt.Sprintf("shock_fraction %.2f flags more than 1 in 5 days", sc.Overlay.ShockFraction),
		})
	}
	if sc.Output.Workbook == "" && sc.Output.CSV == "" {
		warnings = append(warnings, Warning{
			Code:    "NO_OUTPUT",
			Message: "no workbook or csv output configured",
		})
	}

	return warnings
}

// ParseDate parses a YYYY-MM-DD field
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(contracts.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD, got %q", s)
	}
	return t, nil
}
