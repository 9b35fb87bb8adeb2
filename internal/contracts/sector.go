package contracts

// SectorMean holds the per-sector mean of each tracked metric. A metric
// with no contributing record is an invalid Optional, never NaN.
type SectorMean struct {
	TrailingPE   Optional `json:"trailing_pe"`
	ForwardPE    Optional `json:"forward_pe"`
	PriceToBook  Optional `json:"price_to_book"`
	DebtToEquity Optional `json:"debt_to_equity"`
	Count        int      `json:"count"` // records in the sector
}

// HasValuation reports whether any valuation multiple mean is present
func (m SectorMean) HasValuation() bool {
	return m.TrailingPE.Valid || m.ForwardPE.Valid || m.PriceToBook.Valid
}

// SectorAverages maps sector name to its means. Sectors without contributing
// records are absent.
// ⭐ SSOT: Aggregator → Scoring 섹터 평균 전달
type SectorAverages map[string]SectorMean

// Lookup returns the means for a sector; an empty sector never matches
func (s SectorAverages) Lookup(sector string) (SectorMean, bool) {
	if sector == "" || s == nil {
		return SectorMean{}, false
	}
	m, ok := s[sector]
	return m, ok
}
