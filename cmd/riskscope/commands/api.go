package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/riskscope/internal/api"
	"github.com/wonny/riskscope/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                 - Health check
  GET  /metrics                - Prometheus metrics
  GET  /api/series/synthetic   - 합성 시계열 생성 + 점수 (num_days, seed)
  GET  /api/series/market      - 원격 종가 + overlay + 점수 (ticker, from, to, seed, shock_fraction)
  POST /api/series/score       - 요청 본문 시계열 점수 산출

Example:
  go run ./cmd/riskscope api
  go run ./cmd/riskscope api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Config + logger
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Metrics + market fetcher (Redis optional)
	rec := newRecorder(cfg)
	fetcher := newMarketFetcher(ctx, cfg, rec, log)
	defer fetcher.Close()

	// 3. Handler + router + server
	seriesHandler := handlers.NewSeriesHandler(fetcher, rec, log)
	router := api.NewRouter(seriesHandler, rec, log)
	server := api.New(cfg, log, router)

	fmt.Fprintf(cmd.OutOrStdout(), "\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	// 4. Serve until signal
	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
