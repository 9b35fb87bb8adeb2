package scoring

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// SafetyMultiplier scales the summed safety points
const SafetyMultiplier = 3

// SafetyCalculator scores low volatility, low leverage, low beta and
// dividend strength
// ⭐ SSOT: 안정성 점수 계산은 여기서만
type SafetyCalculator struct {
	periodsPerYear float64
	logger         *logger.Logger
}

// NewSafetyCalculator creates a safety calculator. periodsPerYear annualizes the
// return std-dev of the price history samples.
func NewSafetyCalculator(periodsPerYear float64, log *logger.Logger) *SafetyCalculator {
	return &SafetyCalculator{
		periodsPerYear: periodsPerYear,
		logger:         log,
	}
}

// SafetyDetails is the per-factor point breakdown
type SafetyDetails struct {
	Volatility        contracts.Optional `json:"volatility"`
	VolatilityPoints  int                `json:"volatility_points"`
	DebtPoints        int                `json:"debt_points"`
	SectorDebtPoints  int                `json:"sector_debt_points"`
	BetaPoints        int                `json:"beta_points"`
	YieldPoints       int                `json:"yield_points"`
	DividendGrowth    int                `json:"dividend_growth_years"`
	DividendGrowthPts int                `json:"dividend_growth_points"`
}

// Points sums all factor points
func (d SafetyDetails) Points() int {
	return d.VolatilityPoints + d.DebtPoints + d.SectorDebtPoints +
		d.BetaPoints + d.YieldPoints + d.DividendGrowthPts
}

// Calculate returns the safety score and its breakdown
func (c *SafetyCalculator) Calculate(record *contracts.SecurityRecord, dividends contracts.DividendSeries, history contracts.PriceHistory, sectors contracts.SectorAverages) (float64, SafetyDetails) {
	m := record.Metrics
	details := SafetyDetails{}

	if vol, ok := Volatility(history, c.periodsPerYear); ok {
		details.Volatility = contracts.Some(vol)
		details.VolatilityPoints = volatilityPoints(vol)
	}

	if m.DebtToEquity.Valid && m.DebtToEquity.Value >= 0 {
		de := m.DebtToEquity.Value
		details.DebtPoints = debtPoints(de)
		if mean, ok := sectors.Lookup(record.Sector); ok && mean.DebtToEquity.Positive() {
			details.SectorDebtPoints = sectorDebtPoints(de, mean.DebtToEquity.Value)
		}
	}

	if m.Beta.Valid {
		details.BetaPoints = betaPoints(m.Beta.Value)
	}

	if m.DividendYield.Valid {
		details.YieldPoints = yieldPoints(m.DividendYield.Value)
	}

	details.DividendGrowth = DividendGrowthYears(dividends)
	details.DividendGrowthPts = dividendGrowthPoints(details.DividendGrowth)

	score := float64(details.Points() * SafetyMultiplier)

	c.logger.WithFields(map[string]interface{}{
		"symbol":     record.Symbol,
		"volatility": details.Volatility.String(),
		"div_growth": details.DividendGrowth,
		"points":     details.Points(),
		"score":      score,
	}).Debug("Calculated safety score")

	return score, details
}

// volatilityPoints buckets annualized volatility (percent). The 10-20% band
// scores higher than <10%.
func volatilityPoints(vol float64) int {
	switch {
	case vol < 10:
		return 1
	case vol < 20:
		return 2
	case vol < 30:
		return 1
	default:
		return 0
	}
}

func debtPoints(de float64) int {
	switch {
	case de < 50:
		return 2
	case de < 150:
		return 1
	default:
		return 0
	}
}

func sectorDebtPoints(de, sectorMean float64) int {
	switch {
	case de < 0.7*sectorMean:
		return 2
	case de < sectorMean:
		return 1
	default:
		return 0
	}
}

func betaPoints(beta float64) int {
	switch {
	case beta < 1:
		return 2
	case beta < 1.3:
		return 1
	default:
		return 0
	}
}

func yieldPoints(yieldPct float64) int {
	switch {
	case yieldPct >= 3:
		return 2
	case yieldPct >= 1:
		return 1
	default:
		return 0
	}
}

func dividendGrowthPoints(years int) int {
	switch {
	case years >= 20:
		return 3
	case years >= 15:
		return 2
	case years >= 10:
		return 1
	default:
		return 0
	}
}
