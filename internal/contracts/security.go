package contracts

import "time"

// SecurityRecord is the immutable snapshot of one symbol produced by a
// MarketDataSource
// ⭐ SSOT: Fetcher → Aggregator/Scoring 종목 정보 전달
type SecurityRecord struct {
	Symbol  string  `json:"symbol"`
	Name    string  `json:"name"`
	Sector  string  `json:"sector,omitempty"` // empty = unknown
	Metrics Metrics `json:"metrics"`
}

// DisplayName returns the long name, falling back to the symbol
func (s *SecurityRecord) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Symbol
}

// HasSector reports whether the record belongs to a known sector
func (s *SecurityRecord) HasSector() bool {
	return s.Sector != ""
}

// Metrics are the named market metrics of a security
type Metrics struct {
	MarketPrice        Optional `json:"market_price"`
	TargetPrice        Optional `json:"target_price"` // analyst mean target
	TrailingPE         Optional `json:"trailing_pe"`
	ForwardPE          Optional `json:"forward_pe"`
	PEG                Optional `json:"peg"`
	PriceToBook        Optional `json:"price_to_book"`
	DebtToEquity       Optional `json:"debt_to_equity"` // percent, Yahoo convention
	Beta               Optional `json:"beta"`
	DividendYield      Optional `json:"dividend_yield"`      // percent
	RecommendationMean Optional `json:"recommendation_mean"` // 1 = strong buy, 5 = sell
}

// DividendPayment is one dividend distribution
type DividendPayment struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// DividendSeries is the dividend history of one symbol, oldest first
type DividendSeries []DividendPayment

// PricePoint is one close sample
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceHistory is the close series over the lookback window, oldest first
type PriceHistory []PricePoint

// Closes returns the close prices in order
func (h PriceHistory) Closes() []float64 {
	closes := make([]float64, len(h))
	for i, p := range h {
		closes[i] = p.Close
	}
	return closes
}

// MarketData bundles everything fetched for one symbol
type MarketData struct {
	Record    SecurityRecord
	Dividends DividendSeries
	History   PriceHistory
}
