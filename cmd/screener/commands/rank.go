package commands

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "종목 랭킹 실행",
	Long: `Runs the full pipeline once and prints the ranked table.

이 명령어는:
- 유니버스(SYMBOLS_SOURCE) 로드
- 종목별 시세/배당/가격이력 병렬 수집
- 섹터 평균 계산 후 Safety / Potential / Analyst 점수화
- Total 내림차순 정렬 후 출력

Example:
  go run ./cmd/screener rank
  go run ./cmd/screener rank --limit 25
  go run ./cmd/screener rank --json > ranking.json`,
	RunE: runRank,
}

var (
	rankLimit int
	rankJSON  bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "rows to print (0 = all)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print the report as JSON")
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.service.Refresh(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rankJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	PrintReport(out, rep, rankLimit)
	return nil
}
