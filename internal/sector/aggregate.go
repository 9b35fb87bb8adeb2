// Package sector computes per-sector means of valuation and leverage ratios.
package sector

import (
	"github.com/wonny/screener/internal/contracts"
)

// accumulator counts sum/n for one metric
type accumulator struct {
	sum float64
	n   int
}

func (a *accumulator) add(v contracts.Optional) {
	if !v.Valid {
		return
	}
	a.sum += v.Value
	a.n++
}

func (a accumulator) mean() contracts.Optional {
	if a.n == 0 {
		return contracts.None()
	}
	return contracts.Some(a.sum / float64(a.n))
}

type sectorTotals struct {
	trailingPE   accumulator
	forwardPE    accumulator
	priceToBook  accumulator
	debtToEquity accumulator
	count        int
}

// Aggregate returns the arithmetic mean of TrailingPE, ForwardPE, PriceToBook
// and DebtToEquity per sector. Records without a sector are ignored. A metric
// absent on a record is excluded from that metric's mean only.
// ⭐ SSOT: 섹터 평균 계산은 여기서만
func Aggregate(records []*contracts.SecurityRecord) contracts.SectorAverages {
	totals := make(map[string]*sectorTotals)

	for _, r := range records {
		if r == nil || !r.HasSector() {
			continue
		}
		t, ok := totals[r.Sector]
		if !ok {
			t = &sectorTotals{}
			totals[r.Sector] = t
		}
		t.count++
		t.trailingPE.add(r.Metrics.TrailingPE)
		t.forwardPE.add(r.Metrics.ForwardPE)
		t.priceToBook.add(r.Metrics.PriceToBook)
		t.debtToEquity.add(r.Metrics.DebtToEquity)
	}

	averages := make(contracts.SectorAverages, len(totals))
	for name, t := range totals {
		averages[name] = contracts.SectorMean{
			TrailingPE:   t.trailingPE.mean(),
			ForwardPE:    t.forwardPE.mean(),
			PriceToBook:  t.priceToBook.mean(),
			DebtToEquity: t.debtToEquity.mean(),
			Count:        t.count,
		}
	}
	return averages
}

// Records extracts the security records from a fetched batch
func Records(data []*contracts.MarketData) []*contracts.SecurityRecord {
	records := make([]*contracts.SecurityRecord, 0, len(data))
	for _, d := range data {
		if d != nil {
			records = append(records, &d.Record)
		}
	}
	return records
}
