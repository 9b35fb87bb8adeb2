package screenconfig

import (
	"fmt"
	"strings"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validLookbacks = map[string]bool{"1mo": true, "3mo": true, "6mo": true, "1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true}
	validIntervals = map[string]bool{"1d": true, "5d": true, "1wk": true, "1mo": true, "3mo": true}
	validPeriods   = map[string]bool{"d": true, "w": true, "m": true}
)

// Validate checks all required constraints
func Validate(cfg *Profile) error {
	// === Meta ===
	if cfg.Meta.ProfileID == "" {
		return ValidationError{"meta.profile_id", "required"}
	}

	// === Fetch ===
	if cfg.Fetch.Workers < 1 || cfg.Fetch.Workers > 100 {
		return ValidationError{"fetch.workers", "must be in [1, 100]"}
	}
	if !validLookbacks[cfg.Fetch.Lookback] {
		return ValidationError{"fetch.lookback", fmt.Sprintf("unsupported range %q", cfg.Fetch.Lookback)}
	}
	if !validIntervals[cfg.Fetch.Interval] {
		return ValidationError{"fetch.interval", fmt.Sprintf("unsupported interval %q", cfg.Fetch.Interval)}
	}
	if !validPeriods[cfg.Fetch.EODHDPeriod] {
		return ValidationError{"fetch.eodhd_period", "must be one of d, w, m"}
	}

	// === Scoring ===
	if cfg.Scoring.PeriodsPerYear <= 0 {
		return ValidationError{"scoring.periods_per_year", "must be > 0"}
	}
	for symbol, score := range cfg.Scoring.AnalystOverrides {
		if strings.TrimSpace(symbol) == "" {
			return ValidationError{"scoring.analyst_overrides", "symbol must not be empty"}
		}
		if score < 0 || score > 10 {
			return ValidationError{"scoring.analyst_overrides." + symbol, "must be in [0, 10]"}
		}
	}

	// === Report ===
	if cfg.Report.TopN < 1 {
		return ValidationError{"report.top_n", "must be >= 1"}
	}
	if cfg.Report.FXRate <= 0 {
		return ValidationError{"report.fx_rate", "must be > 0"}
	}
	if cfg.Report.Currency == "" {
		return ValidationError{"report.currency", "required"}
	}

	return nil
}
