// Package screenconfig loads the YAML screen profile: fetch concurrency,
// history window, scoring knobs and report display settings.
package screenconfig

import (
	"time"

	"github.com/wonny/screener/internal/fetcher"
	"github.com/wonny/screener/internal/report"
	"github.com/wonny/screener/internal/scoring"
)

// Profile is the root of a screen profile YAML
// ⭐ SSOT: 스크리닝 파라미터는 이 구조체에서만
type Profile struct {
	Meta    Meta          `yaml:"meta" json:"meta"`
	Fetch   FetchConfig   `yaml:"fetch" json:"fetch"`
	Scoring ScoringConfig `yaml:"scoring" json:"scoring"`
	Report  ReportConfig  `yaml:"report" json:"report"`
}

// Meta identifies the profile
type Meta struct {
	ProfileID   string `yaml:"profile_id" json:"profile_id"`
	Description string `yaml:"description" json:"description"`
}

// FetchConfig controls market data collection
type FetchConfig struct {
	Workers       int    `yaml:"workers" json:"workers"`
	Lookback      string `yaml:"lookback" json:"lookback"` // Yahoo range: 1y, 6mo, ...
	Interval      string `yaml:"interval" json:"interval"` // Yahoo interval: 1d, 5d, 1wk, 1mo
	EODHDPeriod   string `yaml:"eodhd_period" json:"eodhd_period"`
	EODHDExchange string `yaml:"eodhd_exchange" json:"eodhd_exchange"`
}

// ScoringConfig controls the scoring engine
type ScoringConfig struct {
	PeriodsPerYear   float64            `yaml:"periods_per_year" json:"periods_per_year"`
	AnalystOverrides map[string]float64 `yaml:"analyst_overrides" json:"analyst_overrides"`
}

// ReportConfig controls display only; it never changes scores
type ReportConfig struct {
	TopN     int     `yaml:"top_n" json:"top_n"`
	FXRate   float64 `yaml:"fx_rate" json:"fx_rate"`
	Currency string  `yaml:"currency" json:"currency"`
}

// Default returns the built-in profile used when SCREEN_PROFILE is unset
func Default() *Profile {
	return &Profile{
		Meta: Meta{
			ProfileID:   "default",
			Description: "1y of 5-day closes, 15 workers, EUR display",
		},
		Fetch: FetchConfig{
			Workers:       fetcher.DefaultWorkers,
			Lookback:      "1y",
			Interval:      "5d",
			EODHDPeriod:   "w",
			EODHDExchange: "US",
		},
		Scoring: ScoringConfig{
			PeriodsPerYear:   scoring.DefaultConfig().PeriodsPerYear,
			AnalystOverrides: scoring.DefaultConfig().AnalystOverrides,
		},
		Report: ReportConfig{
			TopN:     report.DefaultTopN,
			FXRate:   report.DefaultFXRate,
			Currency: report.DefaultCurrency,
		},
	}
}

// FetcherConfig returns the fetcher settings
func (p *Profile) FetcherConfig() fetcher.Config {
	return fetcher.Config{Workers: p.Fetch.Workers}
}

// ScoringEngineConfig returns the scoring settings
func (p *Profile) ScoringEngineConfig() scoring.Config {
	return scoring.Config{
		PeriodsPerYear:   p.Scoring.PeriodsPerYear,
		AnalystOverrides: p.Scoring.AnalystOverrides,
	}
}

// ReportOptions returns the display settings
func (p *Profile) ReportOptions() report.Options {
	return report.Options{
		TopN:     p.Report.TopN,
		FXRate:   p.Report.FXRate,
		Currency: p.Report.Currency,
	}
}

// LookbackDuration converts the Yahoo range notation into a duration for
// providers that take explicit dates. ok is false for ytd/max.
func (p *Profile) LookbackDuration() (time.Duration, bool) {
	d, ok := lookbackDurations[p.Fetch.Lookback]
	return d, ok
}

const day = 24 * time.Hour

var lookbackDurations = map[string]time.Duration{
	"1mo": 30 * day,
	"3mo": 91 * day,
	"6mo": 182 * day,
	"1y":  365 * day,
	"2y":  730 * day,
	"5y":  1826 * day,
	"10y": 3652 * day,
}
