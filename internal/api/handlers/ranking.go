package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/screener/internal/ranking"
	"github.com/wonny/screener/internal/report"
	"github.com/wonny/screener/pkg/logger"
)

// RankingService is the subset of ranking.Service the handlers need
type RankingService interface {
	Latest() *report.Report
	Refresh(ctx context.Context) (*report.Report, error)
}

// RankingHandler handles ranking-related API endpoints
// ⭐ SSOT: 랭킹 API 핸들러는 이 구조체에서만
type RankingHandler struct {
	service RankingService
	topN    int
	logger  *logger.Logger
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(service RankingService, topN int, log *logger.Logger) *RankingHandler {
	if topN <= 0 {
		topN = report.DefaultTopN
	}
	return &RankingHandler{
		service: service,
		topN:    topN,
		logger:  log,
	}
}

// RankingResponse is the body of GET /api/ranking
type RankingResponse struct {
	GeneratedAt string           `json:"generated_at"`
	Duration    string           `json:"duration"`
	Requested   int              `json:"requested"`
	Count       int              `json:"count"`
	Rows        []report.Row     `json:"rows"`
	Failures    []report.Failure `json:"failures"`
}

// RefreshResponse is the body of POST /api/ranking/refresh
type RefreshResponse struct {
	Status   string `json:"status"`
	Ranked   int    `json:"ranked"`
	Failures int    `json:"failures"`
	Duration string `json:"duration"`
}

// GetRanking returns the ranked table
// GET /api/ranking?limit=N
func (h *RankingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	rep := h.latest(w)
	if rep == nil {
		return
	}

	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	rows := rep.Limit(limit)
	respondJSON(w, http.StatusOK, RankingResponse{
		GeneratedAt: rep.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Duration:    rep.Duration,
		Requested:   rep.Requested,
		Count:       len(rows),
		Rows:        rows,
		Failures:    rep.Failures,
	})
}

// GetSectors returns per-sector means sorted by sector name
// GET /api/sectors
func (h *RankingHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	rep := h.latest(w)
	if rep == nil {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(rep.Sectors),
		"sectors": rep.Sectors,
	})
}

// GetTop returns the top N by safety or potential
// GET /api/top/{category}?n=N
func (h *RankingHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	var key func(report.Row) float64
	switch category {
	case "safety":
		key = func(row report.Row) float64 { return row.Safety }
	case "potential":
		key = func(row report.Row) float64 { return row.Potential }
	default:
		respondError(w, http.StatusBadRequest, "Invalid category (valid: safety, potential)")
		return
	}

	rep := h.latest(w)
	if rep == nil {
		return
	}

	n, ok := queryInt(w, r, "n", h.topN)
	if !ok {
		return
	}
	if n <= 0 {
		n = h.topN
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"rows":     report.TopN(rep.Rows, n, key),
	})
}

// Refresh re-runs the ranking synchronously. The run outlives a client that
// disconnects mid-request.
// POST /api/ranking/refresh
func (h *RankingHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Refresh(context.WithoutCancel(r.Context()))
	if err != nil {
		if errors.Is(err, ranking.ErrRefreshInProgress) {
			respondError(w, http.StatusConflict, "Refresh already in progress")
			return
		}
		h.logger.WithError(err).Error("Failed to refresh ranking")
		respondError(w, http.StatusInternalServerError, "Failed to refresh ranking")
		return
	}

	respondJSON(w, http.StatusOK, RefreshResponse{
		Status:   "success",
		Ranked:   len(rep.Rows),
		Failures: len(rep.Failures),
		Duration: rep.Duration,
	})
}

// latest writes 503 and returns nil until the first ranking completes
func (h *RankingHandler) latest(w http.ResponseWriter) *report.Report {
	rep := h.service.Latest()
	if rep == nil {
		respondError(w, http.StatusServiceUnavailable, "Ranking not available yet")
		return nil
	}
	return rep
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respondError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}
