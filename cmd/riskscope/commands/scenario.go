package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/riskscope/internal/scenario"
)

// scenarioCmd represents the scenario command
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "시나리오 파일 도구",
}

var scenarioValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "시나리오 YAML 검증 + 해시 출력",
	Long: `시나리오 파일을 엄격 모드(알 수 없는 키 거부)로 읽고
필수 제약과 권장 사항을 검사한 뒤 정규화 해시를 출력합니다.

Example:
  go run ./cmd/riskscope scenario validate configs/scenarios/sp500_real.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runScenarioValidate,
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
	scenarioCmd.AddCommand(scenarioValidateCmd)
}

func runScenarioValidate(cmd *cobra.Command, args []string) error {
	sc, _, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	hash, err := scenario.Hash(sc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "Scenario "+sc.Meta.ScenarioID)
	PrintKeyValue(out, "Source", sc.Source.Kind, 8)
	PrintKeyValue(out, "Hash", hash, 8)
	for _, w := range scenario.Warn(sc) {
		PrintWarning(out, fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	PrintSuccess(out, "valid")
	return nil
}
