package scoring

import (
	"math"
	"strings"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// Config tunes the scoring engine
type Config struct {
	// PeriodsPerYear annualizes the volatility of the price history samples
	PeriodsPerYear float64
	// AnalystOverrides maps symbol → fixed analyst score
	AnalystOverrides map[string]float64
}

// DefaultConfig returns the stock screener defaults
func DefaultConfig() Config {
	overrides := make(map[string]float64, len(DefaultAnalystOverrides))
	for k, v := range DefaultAnalystOverrides {
		overrides[k] = v
	}
	return Config{
		PeriodsPerYear:   12,
		AnalystOverrides: overrides,
	}
}

// Engine combines the three independent calculators
// ⭐ SSOT: 종목 점수 합산은 여기서만
type Engine struct {
	safety    *SafetyCalculator
	potential *PotentialCalculator
	analyst   *AnalystCalculator
}

// NewEngine creates an engine from config
func NewEngine(cfg Config, log *logger.Logger) *Engine {
	periods := cfg.PeriodsPerYear
	if periods <= 0 {
		periods = DefaultConfig().PeriodsPerYear
	}
	scoringLog := log.WithField("module", "scoring")
	return &Engine{
		safety:    NewSafetyCalculator(periods, scoringLog),
		potential: NewPotentialCalculator(scoringLog),
		analyst:   NewAnalystCalculator(cfg.AnalystOverrides, scoringLog),
	}
}

// Score computes Safety, Potential and Analyst for one security. It reads only
// that security's data plus the shared sector means.
func (e *Engine) Score(data *contracts.MarketData, sectors contracts.SectorAverages) (contracts.ScoreResult, error) {
	if data == nil {
		return contracts.ScoreResult{}, &contracts.ScoringDataError{Field: "market data", Reason: "is missing"}
	}

	record := &data.Record
	if strings.TrimSpace(record.Symbol) == "" {
		return contracts.ScoreResult{}, &contracts.ScoringDataError{Field: "symbol", Reason: "is empty"}
	}
	if p := record.Metrics.MarketPrice; p.Valid && (p.Value < 0 || math.IsNaN(p.Value)) {
		return contracts.ScoreResult{}, &contracts.ScoringDataError{Symbol: record.Symbol, Field: "market price", Reason: "is negative"}
	}

	safety, _ := e.safety.Calculate(record, data.Dividends, data.History, sectors)
	potential, _ := e.potential.Calculate(record, sectors)
	analyst, _ := e.analyst.Calculate(record)

	return contracts.NewScoreResult(safety, potential, analyst), nil
}
