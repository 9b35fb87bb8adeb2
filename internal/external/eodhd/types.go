// Package eodhd provides a MarketDataSource backed by the EODHD
// (End of Day Historical Data) API.
package eodhd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/httputil"
)

// APIError represents an error from the EODHD API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Temporary reports whether the request may succeed later
func (e *APIError) Temporary() bool {
	return httputil.IsRetryableError(e.StatusCode)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("EODHD rate limit exceeded, retry after %v", e.RetryAfter)
}

// Temporary is always true for rate limiting
func (e *RateLimitError) Temporary() bool {
	return true
}

// number decodes EODHD numeric fields, which arrive as numbers, numeric
// strings, "NA" or null. Zero is the API's placeholder for unknown and is
// treated as absent.
type number struct {
	value contracts.Optional
}

// UnmarshalJSON implements custom JSON unmarshaling for number.
func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.value = contracts.None()
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			n.value = contracts.None()
			return nil
		}
		n.set(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.set(v)
	return nil
}

func (n *number) set(v float64) {
	if v == 0 {
		n.value = contracts.None()
		return
	}
	n.value = contracts.Some(v)
}

// Optional returns the decoded value
func (n number) Optional() contracts.Optional {
	return n.value
}
