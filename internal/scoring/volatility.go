package scoring

import (
	"math"

	"github.com/wonny/screener/internal/contracts"
)

// Volatility returns the annualized standard deviation of period-over-period
// close returns, in percent. ok is false when fewer than two returns exist.
func Volatility(history contracts.PriceHistory, periodsPerYear float64) (float64, bool) {
	returns := periodReturns(history.Closes())
	if len(returns) < 2 {
		return 0, false
	}

	std := sampleStdDev(returns)
	return std * math.Sqrt(periodsPerYear) * 100, true
}

// periodReturns computes c[i]/c[i-1]-1, dropping non-finite results
func periodReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 || math.IsNaN(prev) || math.IsNaN(closes[i]) {
			continue
		}
		r := closes[i]/prev - 1
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		returns = append(returns, r)
	}
	return returns
}

// sampleStdDev uses n-1 in the denominator
func sampleStdDev(values []float64) float64 {
	n := float64(len(values))
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= n

	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / (n - 1))
}
