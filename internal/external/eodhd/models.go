package eodhd

import "time"

// EODData represents a single end-of-day price record.
type EODData struct {
	Date          time.Time `json:"-"`
	DateStr       string    `json:"date"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adjusted_close"`
	Volume        int64     `json:"volume"`
}

// EODResponse is the response from the EOD endpoint.
type EODResponse []EODData

// DividendData represents a dividend payment.
type DividendData struct {
	Date     time.Time `json:"-"`
	DateStr  string    `json:"date"`
	Value    float64   `json:"value"`
	Currency string    `json:"currency"`
}

// DividendsResponse is the response from the dividends endpoint.
type DividendsResponse []DividendData

// FundamentalsResponse holds the subset of /fundamentals the screener reads.
type FundamentalsResponse struct {
	General        *GeneralInfo    `json:"General"`
	Highlights     *Highlights     `json:"Highlights"`
	Valuation      *Valuation      `json:"Valuation"`
	Technicals     *Technicals     `json:"Technicals"`
	AnalystRatings *AnalystRatings `json:"AnalystRatings"`
}

// GeneralInfo contains general company information.
type GeneralInfo struct {
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Exchange string `json:"Exchange"`
	Sector   string `json:"Sector"`
	Industry string `json:"Industry"`
}

// Highlights contains key financial highlights.
type Highlights struct {
	PERatio               number `json:"PERatio"`
	PEGRatio              number `json:"PEGRatio"`
	WallStreetTargetPrice number `json:"WallStreetTargetPrice"`
	DividendYield         number `json:"DividendYield"` // fraction
}

// Valuation contains valuation metrics.
type Valuation struct {
	TrailingPE   number `json:"TrailingPE"`
	ForwardPE    number `json:"ForwardPE"`
	PriceBookMRQ number `json:"PriceBookMRQ"`
}

// Technicals contains technical analysis data.
type Technicals struct {
	Beta number `json:"Beta"`
}

// AnalystRatings contains analyst ratings data. Rating runs 1 (sell) to
// 5 (strong buy), the inverse of a recommendation mean.
type AnalystRatings struct {
	Rating      number `json:"Rating"`
	TargetPrice number `json:"TargetPrice"`
}
