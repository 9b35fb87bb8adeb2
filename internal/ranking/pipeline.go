// Package ranking runs fetch → sector aggregation → scoring → sort.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/fetcher"
	"github.com/wonny/screener/internal/scoring"
	"github.com/wonny/screener/internal/sector"
	"github.com/wonny/screener/pkg/logger"
)

// Pipeline implements contracts.Ranker
// ⭐ SSOT: 랭킹 파이프라인은 여기서만
type Pipeline struct {
	fetcher *fetcher.Fetcher
	engine  *scoring.Engine
	logger  *logger.Logger
	now     func() time.Time
}

var _ contracts.Ranker = (*Pipeline)(nil)

// NewPipeline creates a ranking pipeline
func NewPipeline(f *fetcher.Fetcher, engine *scoring.Engine, log *logger.Logger) *Pipeline {
	return &Pipeline{
		fetcher: f,
		engine:  engine,
		logger:  log.WithField("module", "ranking"),
		now:     time.Now,
	}
}

// Rank fetches, scores and ranks symbols. An unusable symbol list or a context
// that ended during the fetch is an error; per-symbol failures are reported in
// the result.
func (p *Pipeline) Rank(ctx context.Context, symbols []string) (*contracts.RankingResult, error) {
	// 0. Normalize input
	normalized := NormalizeSymbols(symbols)
	if len(normalized) == 0 {
		return nil, &contracts.ConfigurationError{
			Source: "symbols",
			Err:    fmt.Errorf("symbol list is empty"),
		}
	}

	start := p.now()
	result := &contracts.RankingResult{
		Requested: len(normalized),
		StartedAt: start,
	}

	// 1. Fetch
	batch := p.fetcher.FetchAll(ctx, normalized)
	if err := ctx.Err(); err != nil {
		// a cut-short batch is not a ranking
		return nil, fmt.Errorf("fetch interrupted after %d/%d symbols: %w", len(batch.Records), len(normalized), err)
	}
	for _, failure := range batch.Failures {
		p.logger.WithFields(map[string]interface{}{
			"symbol":    failure.Symbol,
			"transient": failure.Transient,
			"error":     failure.Error,
		}).Warn("Dropping symbol after fetch failure")
	}
	result.Failures = batch.Failures

	// 2. Sector means over successes only
	result.Sectors = sector.Aggregate(sector.Records(batch.Records))

	// 3. Score
	table := make(contracts.RankedTable, 0, len(batch.Records))
	for _, data := range batch.Records {
		score, err := p.engine.Score(data, result.Sectors)
		if err != nil {
			p.logger.WithError(err).WithSymbol(data.Record.Symbol).Warn("Skipping symbol after scoring error")
			result.Skipped = append(result.Skipped, contracts.ScoringSkip{
				Symbol: data.Record.Symbol,
				Error:  err.Error(),
			})
			continue
		}
		table = append(table, contracts.RankedEntry{
			Record: data.Record,
			Score:  score,
		})
	}

	// 4. Sort by total (descending), ties keep input order
	SortTable(table)
	result.Table = table
	result.Duration = p.now().Sub(start)

	fields := map[string]interface{}{
		"requested": result.Requested,
		"ranked":    len(table),
		"failed":    len(result.Failures),
		"skipped":   len(result.Skipped),
		"sectors":   len(result.Sectors),
		"duration":  result.Duration.String(),
	}
	if len(table) > 0 {
		fields["top_symbol"] = table[0].Record.Symbol
		fields["top_score"] = table[0].Score.Total
	}
	p.logger.WithFields(fields).Info("Ranking completed")

	return result, nil
}

// SortTable stable-sorts by Total descending and assigns 1-based ranks
func SortTable(table contracts.RankedTable) {
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Score.Total > table[j].Score.Total
	})

	for i := range table {
		table[i].Rank = i + 1
	}
}

// NormalizeSymbols trims, upper-cases and de-duplicates symbols, keeping the
// first occurrence. Blank entries are dropped.
func NormalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
