package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/screener/internal/api"
	"github.com/wonny/screener/internal/api/handlers"
	"github.com/wonny/screener/internal/scheduler"
	"github.com/wonny/screener/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 + 스케줄러 시작",
	Long: `Starts the HTTP API and refreshes the ranking on RANK_SCHEDULE.

Endpoints:
  GET  /health                 - Health check
  GET  /api/ranking?limit=N    - Ranked table
  GET  /api/sectors            - Sector means
  GET  /api/top/{category}?n=N - Top N by safety or potential
  POST /api/ranking/refresh    - Run the pipeline now
  GET  /api/jobs               - Scheduled jobs, next run, last result
  GET  /ws                     - ranking_updated push

Example:
  go run ./cmd/screener serve
  go run ./cmd/screener serve --port 8080 --no-initial`,
	RunE: runServe,
}

var (
	servePort      string
	serveNoInitial bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (default PORT)")
	serveCmd.Flags().BoolVar(&serveNoInitial, "no-initial", false, "skip the refresh at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort != "" {
		a.cfg.Port = servePort
	}
	log := a.log

	// 1. Scheduler
	job := jobs.NewRankingJob(a.service, a.cfg.RankSchedule, log)
	sched := scheduler.New(scheduler.DefaultOptions(), log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("schedule ranking: %w", err)
	}

	// 2. API
	hub := handlers.NewWebSocketHub(log)
	a.service.Subscribe(hub.BroadcastReport)
	rankingHandler := handlers.NewRankingHandler(a.service, a.profile.Report.TopN, log)
	jobsHandler := handlers.NewJobsHandler(sched)
	server := api.New(a.cfg, log, api.NewRouter(rankingHandler, jobsHandler, hub, log))

	sched.Start()
	defer sched.Stop()

	if !serveNoInitial {
		if err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	PrintSuccess(out, fmt.Sprintf("Server running on http://localhost%s (refresh: %s)", server.Addr(), job.Schedule()))
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// blocks until SIGINT/SIGTERM, then drains requests; sched.Stop cancels a running refresh
	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
