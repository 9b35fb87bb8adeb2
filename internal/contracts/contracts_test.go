package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"testing"
)

func TestOptional(t *testing.T) {
	tests := []struct {
		name     string
		opt      Optional
		valid    bool
		positive bool
		str      string
	}{
		{"present", Some(12.5), true, true, "12.50"},
		{"zero is present", Some(0), true, false, "0.00"},
		{"negative", Some(-3), true, false, "-3.00"},
		{"absent", None(), false, false, "N/A"},
		{"nan is absent", Some(math.NaN()), false, false, "N/A"},
		{"inf is absent", Some(math.Inf(1)), false, false, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.opt.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v", tt.opt.Valid, tt.valid)
			}
			if got := tt.opt.Positive(); got != tt.positive {
				t.Errorf("Positive() = %v, want %v", got, tt.positive)
			}
			if got := tt.opt.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestOptionalFromPtr(t *testing.T) {
	if FromPtr(nil).Valid {
		t.Error("nil pointer should be absent")
	}
	v := 1.25
	if got, ok := FromPtr(&v).Get(); !ok || got != 1.25 {
		t.Errorf("FromPtr(&1.25) = %v, %v", got, ok)
	}
}

func TestOptionalJSON(t *testing.T) {
	type wrapper struct {
		Beta Optional `json:"beta"`
		PE   Optional `json:"pe"`
	}

	data, err := json.Marshal(wrapper{Beta: Some(1.1)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"beta":1.1,"pe":null}` {
		t.Errorf("Marshal = %s", data)
	}

	var decoded wrapper
	if err := json.Unmarshal([]byte(`{"beta":null,"pe":0}`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Beta.Valid {
		t.Error("null should decode as absent")
	}
	if !decoded.PE.Valid || decoded.PE.Value != 0 {
		t.Errorf("0 should decode as present zero, got %+v", decoded.PE)
	}
}

func TestNewScoreResult(t *testing.T) {
	s := NewScoreResult(6, 12, 7)
	if s.Total != 25 {
		t.Errorf("Total = %v, want 25", s.Total)
	}
}

func TestSectorAverages_Lookup(t *testing.T) {
	sectors := SectorAverages{
		"Technology": {TrailingPE: Some(30), Count: 4},
		"Utilities":  {DebtToEquity: Some(120), Count: 2},
	}

	if _, ok := sectors.Lookup(""); ok {
		t.Error("empty sector should not be found")
	}
	if _, ok := sectors.Lookup("Energy"); ok {
		t.Error("unknown sector should not be found")
	}

	tech, ok := sectors.Lookup("Technology")
	if !ok || !tech.HasValuation() {
		t.Errorf("Technology lookup = %+v, %v", tech, ok)
	}
	utilities, _ := sectors.Lookup("Utilities")
	if utilities.HasValuation() {
		t.Error("debt/equity alone is not a valuation mean")
	}
}

func TestSecurityRecord(t *testing.T) {
	r := SecurityRecord{Symbol: "BRK-B"}
	if r.DisplayName() != "BRK-B" {
		t.Errorf("DisplayName() = %q", r.DisplayName())
	}
	if r.HasSector() {
		t.Error("empty sector should be unknown")
	}

	r.Name = "Berkshire Hathaway"
	r.Sector = "Financial Services"
	if r.DisplayName() != "Berkshire Hathaway" || !r.HasSector() {
		t.Errorf("unexpected record %+v", r)
	}
}

func TestPriceHistory_Closes(t *testing.T) {
	h := PriceHistory{{Close: 10}, {Close: 11}, {Close: 9.5}}
	closes := h.Closes()
	if len(closes) != 3 || closes[2] != 9.5 {
		t.Errorf("Closes() = %v", closes)
	}
}

type temporaryErr struct{ temp bool }

func (e temporaryErr) Error() string   { return "status" }
func (e temporaryErr) Temporary() bool { return e.temp }

func TestNewFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"plain", errors.New("not found"), false},
		{"temporary", temporaryErr{temp: true}, true},
		{"permanent status", temporaryErr{temp: false}, false},
		{"wrapped temporary", fmt.Errorf("quote: %w", temporaryErr{temp: true}), true},
		{"timeout", &net.DNSError{Err: "timeout", IsTimeout: true}, true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := NewFetchError("yahoo", "AAPL", tt.err)
			if fe.Transient != tt.transient {
				t.Errorf("Transient = %v, want %v", fe.Transient, tt.transient)
			}
			if !errors.Is(fe, tt.err) {
				t.Error("FetchError should unwrap to the cause")
			}
		})
	}
}

func TestNewFetchErrorKeepsExisting(t *testing.T) {
	inner := NewFetchError("eodhd", "MSFT", errors.New("boom"))
	outer := NewFetchError("yahoo", "AAPL", fmt.Errorf("wrapped: %w", inner))
	if outer != inner {
		t.Error("an existing FetchError in the chain should be returned as is")
	}
}

func TestErrorMessages(t *testing.T) {
	if got := (&ScoringDataError{Symbol: "X", Field: "market_price", Reason: "is negative"}).Error(); got != "scoring X: market_price is negative" {
		t.Errorf("ScoringDataError = %q", got)
	}
	if got := (&ScoringDataError{Field: "record", Reason: "is nil"}).Error(); got != "scoring: record is nil" {
		t.Errorf("ScoringDataError = %q", got)
	}

	cause := errors.New("open sp500.txt: no such file")
	ce := &ConfigurationError{Source: "file", Err: cause}
	if ce.Error() != "configuration (file): open sp500.txt: no such file" {
		t.Errorf("ConfigurationError = %q", ce.Error())
	}
	var target *ConfigurationError
	if !errors.As(fmt.Errorf("load symbols: %w", ce), &target) || !errors.Is(ce, cause) {
		t.Error("ConfigurationError should match errors.As / errors.Is")
	}
}
