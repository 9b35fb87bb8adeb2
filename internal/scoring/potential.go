package scoring

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// PotentialMultiplier scales the summed potential points
const PotentialMultiplier = 6

// PotentialCalculator scores analyst upside, sector-relative valuation and PEG
// ⭐ SSOT: 성장 잠재력 점수 계산은 여기서만
type PotentialCalculator struct {
	logger *logger.Logger
}

// NewPotentialCalculator creates a new potential calculator
func NewPotentialCalculator(log *logger.Logger) *PotentialCalculator {
	return &PotentialCalculator{
		logger: log,
	}
}

// PotentialDetails is the per-factor point breakdown
type PotentialDetails struct {
	Upside         contracts.Optional `json:"upside"` // percent
	UpsidePoints   int                `json:"upside_points"`
	SectorRelative bool               `json:"sector_relative"`
	TrailingPoints int                `json:"trailing_pe_points"`
	ForwardPoints  int                `json:"forward_pe_points"`
	BookPoints     int                `json:"price_to_book_points"`
	FallbackPoints int                `json:"fallback_points"`
	PEGPoints      int                `json:"peg_points"`
}

// Points sums all factor points
func (d PotentialDetails) Points() int {
	return d.UpsidePoints + d.TrailingPoints + d.ForwardPoints + d.BookPoints +
		d.FallbackPoints + d.PEGPoints
}

// Calculate returns the potential score and its breakdown
func (c *PotentialCalculator) Calculate(record *contracts.SecurityRecord, sectors contracts.SectorAverages) (float64, PotentialDetails) {
	m := record.Metrics
	details := PotentialDetails{}

	if m.MarketPrice.Positive() && m.TargetPrice.Valid {
		upside := (m.TargetPrice.Value - m.MarketPrice.Value) / m.MarketPrice.Value * 100
		details.Upside = contracts.Some(upside)
		details.UpsidePoints = upsidePoints(upside)
	}

	if mean, ok := sectors.Lookup(record.Sector); ok && mean.HasValuation() {
		details.SectorRelative = true
		details.TrailingPoints = relativePoints(m.TrailingPE, mean.TrailingPE, 0.8, 5, 2)
		details.ForwardPoints = relativePoints(m.ForwardPE, mean.ForwardPE, 0.8, 4, 2)
		details.BookPoints = relativePoints(m.PriceToBook, mean.PriceToBook, 0.7, 2, 1)
	} else {
		details.FallbackPoints = absoluteValuationPoints(m.TrailingPE, m.ForwardPE)
	}

	if m.PEG.Positive() {
		details.PEGPoints = pegPoints(m.PEG.Value)
	}

	score := float64(details.Points() * PotentialMultiplier)

	c.logger.WithFields(map[string]interface{}{
		"symbol":          record.Symbol,
		"upside":          details.Upside.String(),
		"sector_relative": details.SectorRelative,
		"points":          details.Points(),
		"score":           score,
	}).Debug("Calculated potential score")

	return score, details
}

func upsidePoints(upside float64) int {
	switch {
	case upside > 30:
		return 2
	case upside > 20:
		return 1
	default:
		return 0
	}
}

// relativePoints compares a multiple to its sector mean: below cheap×mean
// earns cheapPts, below the mean earns belowPts.
func relativePoints(value, sectorMean contracts.Optional, cheap float64, cheapPts, belowPts int) int {
	if !value.Positive() || !sectorMean.Positive() {
		return 0
	}
	switch {
	case value.Value < cheap*sectorMean.Value:
		return cheapPts
	case value.Value < sectorMean.Value:
		return belowPts
	default:
		return 0
	}
}

// absoluteValuationPoints is the chain used when no sector means exist.
// Only the first matching rung counts.
func absoluteValuationPoints(trailing, forward contracts.Optional) int {
	switch {
	case forward.Positive() && forward.Value < 20:
		return 3
	case trailing.Positive() && trailing.Value < 20:
		return 2
	case forward.Positive() && forward.Value < 30:
		return 1
	default:
		return 0
	}
}

// pegPoints expects peg > 0
func pegPoints(peg float64) int {
	switch {
	case peg < 1.5:
		return 5
	case peg <= 2:
		return 3
	case peg <= 4:
		return 1
	default:
		return 0
	}
}
