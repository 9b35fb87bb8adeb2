package jobs

import (
	"context"
	"errors"

	"github.com/wonny/screener/internal/ranking"
	"github.com/wonny/screener/internal/report"
	"github.com/wonny/screener/pkg/logger"
)

// DefaultRankingSchedule runs after the US close on weekdays
const DefaultRankingSchedule = "0 0 22 * * 1-5"

// Refresher is the part of ranking.Service the job drives
type Refresher interface {
	Refresh(ctx context.Context) (*report.Report, error)
}

// RankingJob refreshes the in-memory ranking on a cron schedule
type RankingJob struct {
	service  Refresher
	schedule string
	logger   *logger.Logger
}

// NewRankingJob creates a ranking refresh job; empty schedule = DefaultRankingSchedule
func NewRankingJob(service Refresher, schedule string, log *logger.Logger) *RankingJob {
	if schedule == "" {
		schedule = DefaultRankingSchedule
	}
	return &RankingJob{
		service:  service,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *RankingJob) Name() string {
	return "ranking_refresh"
}

// Schedule returns the cron schedule
func (j *RankingJob) Schedule() string {
	return j.schedule
}

// Run executes one refresh. A refresh already running (API trigger) counts as done.
func (j *RankingJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled ranking refresh")

	rep, err := j.service.Refresh(ctx)
	if errors.Is(err, ranking.ErrRefreshInProgress) {
		j.logger.Info("Ranking refresh already running, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"ranked":   len(rep.Rows),
		"failures": len(rep.Failures),
		"duration": rep.Duration,
	}).Info("Scheduled ranking refresh completed")

	return nil
}
