package handlers

import (
	"net/http"

	"github.com/wonny/screener/internal/scheduler"
)

// JobStatsProvider is the subset of scheduler.Scheduler the jobs endpoint needs
type JobStatsProvider interface {
	Stats() []scheduler.JobStats
}

// JobsHandler reports scheduled job state
type JobsHandler struct {
	provider JobStatsProvider
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(provider JobStatsProvider) *JobsHandler {
	return &JobsHandler{provider: provider}
}

// JobsResponse is the body of GET /api/jobs
type JobsResponse struct {
	Count int                  `json:"count"`
	Jobs  []scheduler.JobStats `json:"jobs"`
}

// GetJobs lists registered jobs with next run and recent outcome
// GET /api/jobs
func (h *JobsHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	stats := h.provider.Stats()
	respondJSON(w, http.StatusOK, JobsResponse{
		Count: len(stats),
		Jobs:  stats,
	})
}
