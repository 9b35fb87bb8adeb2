package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	failures int32 // fail this many times before succeeding
	calls    int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	n := atomic.AddInt32(&j.calls, 1)
	if n <= j.failures {
		return errors.New("transient")
	}
	return nil
}

// blockingJob runs until its context ends
type blockingJob struct {
	started chan struct{}
}

func (j *blockingJob) Name() string     { return "blocking" }
func (j *blockingJob) Schedule() string { return "@daily" }

func (j *blockingJob) Run(ctx context.Context) error {
	close(j.started)
	<-ctx.Done()
	return ctx.Err()
}

func testOptions() Options {
	return Options{MaxRetries: 2, RetryDelay: time.Millisecond, JobTimeout: time.Second}
}

func statsFor(s *Scheduler, name string) (JobStats, bool) {
	for _, st := range s.Stats() {
		if st.JobName == name {
			return st, true
		}
	}
	return JobStats{}, false
}

func waitForRun(t *testing.T, s *Scheduler, name string) JobStats {
	t.Helper()
	require.Eventually(t, func() bool {
		st, ok := statsFor(s, name)
		return ok && st.TotalRuns >= 1
	}, 2*time.Second, 5*time.Millisecond)
	st, _ := statsFor(s, name)
	return st
}

func TestAddJob(t *testing.T) {
	s := New(testOptions(), logger.Nop())

	require.NoError(t, s.AddJob(&countingJob{name: "b", schedule: "0 0 22 * * 1-5"}))
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@daily"}))

	assert.Error(t, s.AddJob(&countingJob{name: "a", schedule: "@daily"}), "duplicate name")
	assert.Error(t, s.AddJob(&countingJob{name: "c", schedule: "not a schedule"}))

	stats := s.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "a", stats[0].JobName)
	assert.Equal(t, "0 0 22 * * 1-5", stats[1].Schedule)
	assert.Nil(t, stats[1].NextRun, "not started")
}

func TestStatsNextRunAfterStart(t *testing.T) {
	s := New(testOptions(), logger.Nop())
	require.NoError(t, s.AddJob(&countingJob{name: "ranking", schedule: "0 0 22 * * 1-5"}))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		st, _ := statsFor(s, "ranking")
		return st.NextRun != nil
	}, time.Second, 5*time.Millisecond)

	st, _ := statsFor(s, "ranking")
	assert.Equal(t, 22, st.NextRun.Hour())
}

func TestRunJobRetries(t *testing.T) {
	s := New(testOptions(), logger.Nop())
	job := &countingJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("flaky"))
	st := waitForRun(t, s, "flaky")

	require.NotNil(t, st.Last)
	assert.True(t, st.Last.Success)
	assert.Equal(t, 3, st.Last.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&job.calls))
	assert.Equal(t, 1.0, st.SuccessRate)
}

func TestRunJobExhaustsRetries(t *testing.T) {
	s := New(testOptions(), logger.Nop())
	job := &countingJob{name: "broken", schedule: "@daily", failures: 100}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("broken"))
	st := waitForRun(t, s, "broken")

	require.NotNil(t, st.Last)
	assert.False(t, st.Last.Success)
	assert.Equal(t, "transient", st.Last.Error)
	assert.Equal(t, int32(3), atomic.LoadInt32(&job.calls))
	assert.Equal(t, 1, st.FailureCount)
	assert.Equal(t, 0.0, st.SuccessRate)
}

func TestStopCancelsRunningJob(t *testing.T) {
	s := New(testOptions(), logger.Nop())
	job := &blockingJob{started: make(chan struct{})}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob(job.Name()))
	<-job.started
	s.Stop()

	st, _ := statsFor(s, job.Name())
	require.NotNil(t, st.Last, "Stop waits for the run to be recorded")
	assert.False(t, st.Last.Success)
	assert.Equal(t, 1, st.Last.Attempts, "no retry after cancellation")
}

func TestRunJobUnknown(t *testing.T) {
	s := New(testOptions(), logger.Nop())
	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.SuccessRate())
	_, ok := h.Last()
	assert.False(t, ok)

	for i := 0; i < 120; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Equal(t, 50, h.Failures())
	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-9)
	last, ok := h.Last()
	assert.True(t, ok)
	assert.False(t, last.Success)
}
