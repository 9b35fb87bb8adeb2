// Package report turns a ranking result into display rows.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/screener/internal/contracts"
)

// Defaults for the display layer
const (
	DefaultTopN     = 5
	DefaultFXRate   = 0.86
	DefaultCurrency = "€"
)

// Options controls how prices are converted and how many top entries are kept
type Options struct {
	TopN     int
	FXRate   float64 // multiplies the provider price (USD) into Currency
	Currency string
}

// DefaultOptions returns the USD → EUR display defaults
func DefaultOptions() Options {
	return Options{
		TopN:     DefaultTopN,
		FXRate:   DefaultFXRate,
		Currency: DefaultCurrency,
	}
}

// Row is one line of the ranked table
type Row struct {
	Rank         int                `json:"rank"`
	Symbol       string             `json:"symbol"`
	Name         string             `json:"name"`
	Safety       float64            `json:"safety"`
	Potential    float64            `json:"potential"`
	Analyst      float64            `json:"analyst"`
	Total        float64            `json:"total"`
	Sector       string             `json:"sector"`
	TrailingPE   contracts.Optional `json:"trailing_pe"`
	Price        *decimal.Decimal   `json:"price"` // nil when the market price is unknown
	DisplayPrice string             `json:"display_price"`
}

// SectorRow is one line of the sector table
type SectorRow struct {
	Sector       string             `json:"sector"`
	Count        int                `json:"count"`
	TrailingPE   contracts.Optional `json:"trailing_pe"`
	ForwardPE    contracts.Optional `json:"forward_pe"`
	PriceToBook  contracts.Optional `json:"price_to_book"`
	DebtToEquity contracts.Optional `json:"debt_to_equity"`
}

// Failure is a symbol that did not make it into the table
type Failure struct {
	Symbol string `json:"symbol"`
	Stage  string `json:"stage"` // fetch, scoring
	Error  string `json:"error"`
}

// Report is the rendered view of one ranking run
// ⭐ SSOT: CLI / API 출력 형식은 여기서만
type Report struct {
	GeneratedAt  time.Time   `json:"generated_at"`
	Duration     string      `json:"duration"`
	Requested    int         `json:"requested"`
	Rows         []Row       `json:"rows"`
	Sectors      []SectorRow `json:"sectors"`
	TopSafety    []Row       `json:"top_safety"`
	TopPotential []Row       `json:"top_potential"`
	Failures     []Failure   `json:"failures"`
}

// Build renders a ranking result
func Build(result *contracts.RankingResult, opts Options) *Report {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.FXRate <= 0 {
		opts.FXRate = DefaultFXRate
	}
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}

	r := &Report{
		GeneratedAt: result.StartedAt,
		Duration:    result.Duration.String(),
		Requested:   result.Requested,
		Rows:        make([]Row, 0, len(result.Table)),
		Sectors:     SectorTable(result.Sectors),
		Failures:    make([]Failure, 0, len(result.Failures)+len(result.Skipped)),
	}

	for _, entry := range result.Table {
		r.Rows = append(r.Rows, NewRow(entry, opts))
	}

	r.TopSafety = TopN(r.Rows, opts.TopN, func(row Row) float64 { return row.Safety })
	r.TopPotential = TopN(r.Rows, opts.TopN, func(row Row) float64 { return row.Potential })

	for _, f := range result.Failures {
		r.Failures = append(r.Failures, Failure{Symbol: f.Symbol, Stage: "fetch", Error: f.Error})
	}
	for _, s := range result.Skipped {
		r.Failures = append(r.Failures, Failure{Symbol: s.Symbol, Stage: "scoring", Error: s.Error})
	}

	return r
}

// NewRow converts one ranked entry
func NewRow(entry contracts.RankedEntry, opts Options) Row {
	sectorName := entry.Record.Sector
	if sectorName == "" {
		sectorName = "N/A"
	}

	row := Row{
		Rank:         entry.Rank,
		Symbol:       entry.Record.Symbol,
		Name:         entry.Record.DisplayName(),
		Safety:       entry.Score.Safety,
		Potential:    entry.Score.Potential,
		Analyst:      entry.Score.Analyst,
		Total:        entry.Score.Total,
		Sector:       sectorName,
		TrailingPE:   entry.Record.Metrics.TrailingPE,
		DisplayPrice: "N/A",
	}

	if price, ok := DisplayPrice(entry.Record.Metrics.MarketPrice, opts.FXRate); ok {
		row.Price = &price
		row.DisplayPrice = FormatPrice(price, opts.Currency)
	}
	return row
}

// DisplayPrice converts price × fx and rounds half away from zero to cents
func DisplayPrice(price contracts.Optional, fx float64) (decimal.Decimal, bool) {
	if !price.Valid {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(price.Value).
		Mul(decimal.NewFromFloat(fx)).
		Round(2), true
}

// FormatPrice renders "123.45 €"
func FormatPrice(price decimal.Decimal, currency string) string {
	return price.StringFixed(2) + " " + currency
}

// SectorTable lists sector means sorted by sector name
func SectorTable(sectors contracts.SectorAverages) []SectorRow {
	rows := make([]SectorRow, 0, len(sectors))
	for name, mean := range sectors {
		rows = append(rows, SectorRow{
			Sector:       name,
			Count:        mean.Count,
			TrailingPE:   mean.TrailingPE,
			ForwardPE:    mean.ForwardPE,
			PriceToBook:  mean.PriceToBook,
			DebtToEquity: mean.DebtToEquity,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Sector < rows[j].Sector
	})
	return rows
}

// TopN returns the n rows with the largest key. Rows come in rank order and
// the sort is stable, so equal keys keep the better rank first.
func TopN(rows []Row, n int, key func(Row) float64) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) > key(sorted[j])
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Limit returns at most n rows; n <= 0 means all
func (r *Report) Limit(n int) []Row {
	if n <= 0 || n >= len(r.Rows) {
		return r.Rows
	}
	return r.Rows[:n]
}
