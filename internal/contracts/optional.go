package contracts

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Optional is a metric that may be absent. Absent and zero are different
// things to every scorer, so providers must never fill gaps with 0.
type Optional struct {
	Value float64
	Valid bool
}

// Some wraps a present value. NaN and ±Inf are treated as absent.
func Some(v float64) Optional {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Optional{}
	}
	return Optional{Value: v, Valid: true}
}

// None is the absent value
func None() Optional {
	return Optional{}
}

// FromPtr converts a decoded *float64 (nil = absent)
func FromPtr(v *float64) Optional {
	if v == nil {
		return Optional{}
	}
	return Some(*v)
}

// Positive reports whether the value is present and strictly greater than zero
func (o Optional) Positive() bool {
	return o.Valid && o.Value > 0
}

// Get returns the value and whether it is present
func (o Optional) Get() (float64, bool) {
	return o.Value, o.Valid
}

// String renders the value, or "N/A" when absent
func (o Optional) String() string {
	if !o.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(o.Value, 'f', 2, 64)
}

// MarshalJSON encodes absent values as null
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON decodes null as absent
func (o *Optional) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
