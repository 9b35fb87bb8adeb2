package scoring

import (
	"strings"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// DefaultAnalystOverrides pins symbols whose recommendation data is unreliable
// (OTC listings and ADRs with thin coverage).
var DefaultAnalystOverrides = map[string]float64{
	"BYDDF": 7,
	"NVO":   7,
}

// AnalystCalculator maps the mean analyst recommendation to a score
// ⭐ SSOT: 애널리스트 점수 계산은 여기서만
type AnalystCalculator struct {
	overrides map[string]float64
	logger    *logger.Logger
}

// NewAnalystCalculator creates a calculator with a symbol → fixed score table.
// Keys are matched case-insensitively.
func NewAnalystCalculator(overrides map[string]float64, log *logger.Logger) *AnalystCalculator {
	normalized := make(map[string]float64, len(overrides))
	for symbol, score := range overrides {
		normalized[strings.ToUpper(strings.TrimSpace(symbol))] = score
	}
	return &AnalystCalculator{
		overrides: normalized,
		logger:    log,
	}
}

// Calculate returns the analyst score; overridden reports whether the table won
func (c *AnalystCalculator) Calculate(record *contracts.SecurityRecord) (score float64, overridden bool) {
	if fixed, ok := c.overrides[strings.ToUpper(record.Symbol)]; ok {
		c.logger.WithFields(map[string]interface{}{
			"symbol": record.Symbol,
			"score":  fixed,
		}).Debug("Analyst score overridden")
		return fixed, true
	}

	rec := record.Metrics.RecommendationMean
	if !rec.Positive() {
		return 0, false
	}

	return recommendationScore(rec.Value), false
}

// recommendationScore: lower mean is more bullish
func recommendationScore(mean float64) float64 {
	switch {
	case mean <= 1.5:
		return 10
	case mean <= 2:
		return 7
	case mean <= 2.5:
		return 4
	default:
		return 1
	}
}
