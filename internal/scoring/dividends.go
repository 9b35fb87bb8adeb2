package scoring

import (
	"github.com/wonny/screener/internal/contracts"
)

// DividendGrowthYears counts consecutive years of strictly increasing annual
// dividend totals, starting from the oldest year and stopping at the first
// year that does not increase.
func DividendGrowthYears(series contracts.DividendSeries) int {
	return growthStreak(AnnualDividendSums(series))
}

// AnnualDividendSums totals payments per calendar year for every year from the
// first to the last payment. Years without a payment total 0.
func AnnualDividendSums(series contracts.DividendSeries) []float64 {
	if len(series) == 0 {
		return nil
	}

	first, last := series[0].Date.Year(), series[0].Date.Year()
	for _, p := range series {
		y := p.Date.Year()
		if y < first {
			first = y
		}
		if y > last {
			last = y
		}
	}

	sums := make([]float64, last-first+1)
	for _, p := range series {
		sums[p.Date.Year()-first] += p.Amount
	}
	return sums
}

func growthStreak(sums []float64) int {
	streak := 0
	for i := 1; i < len(sums); i++ {
		if sums[i] > sums[i-1] {
			streak++
		} else {
			break
		}
	}
	return streak
}
