package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// sectorsCmd represents the sectors command
var sectorsCmd = &cobra.Command{
	Use:   "sectors",
	Short: "섹터 평균 출력",
	Long: `Fetches the universe and prints per-sector means of trailing P/E,
forward P/E, price/book and debt/equity.

Example:
  go run ./cmd/screener sectors`,
	RunE: runSectors,
}

func init() {
	rootCmd.AddCommand(sectorsCmd)
}

func runSectors(cmd *cobra.Command, args []string) error {
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
	PrintHeader(out, fmt.Sprintf("Sector means  (%d sectors, %d securities)", len(rep.Sectors), len(rep.Rows)))
	PrintSectorTable(out, rep.Sectors)
	PrintFailures(out, rep.Failures)
	PrintDoubleSeparator(out)
	return nil
}
