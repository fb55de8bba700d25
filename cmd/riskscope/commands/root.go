package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env      string
	logLevel string
	verbose  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "riskscope",
	Short: "riskscope - 정책 충격 리스크 점수 모델",
	Long: `riskscope CLI

시장 가격, 감성 점수, 정책 충격 플래그로 일별 합성 리스크 점수를 산출합니다.
파이프라인: load → score → render

Usage:
  go run ./cmd/riskscope [command]

Examples:
  go run ./cmd/riskscope run
  go run ./cmd/riskscope run --scenario configs/scenarios/sp500_real.yaml
  go run ./cmd/riskscope generate --days 250 --seed 7 --out -
  go run ./cmd/riskscope score --in prices.csv
  go run ./cmd/riskscope fetch --ticker ^GSPC
  go run ./cmd/riskscope api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production), overrides ENV")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
