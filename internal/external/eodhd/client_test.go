package eodhd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

const fundamentalsJSON = `{
  "General": {"Code": "KO", "Name": "The Coca-Cola Company", "Exchange": "NYSE", "Sector": "Consumer Defensive"},
  "Highlights": {"PERatio": 24.1, "PEGRatio": "2.40", "WallStreetTargetPrice": 68, "DividendYield": 0.031},
  "Valuation": {"TrailingPE": 24.3, "ForwardPE": 21.3, "PriceBookMRQ": "NA"},
  "Technicals": {"Beta": 0},
  "AnalystRatings": {"Rating": 4.1, "TargetPrice": 70}
}`

const eodJSON = `[
  {"date": "2024-01-05", "close": 60.1, "adjusted_close": 60.0, "volume": 1},
  {"date": "2024-01-12", "close": 61.0, "adjusted_close": 0, "volume": 1}
]`

const divJSON = `[
  {"date": "2023-11-30", "value": 0.46, "currency": "USD"},
  {"date": "2022-11-30", "value": 0.44, "currency": "USD"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{HTTP: config.HTTPConfig{RatePerSec: 100}}
	httpClient := httputil.New(cfg, logger.Nop()).DisableRetry()
	c := NewClient("demo", httpClient, logger.Nop(), WithBaseURL(server.URL))
	c.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestFetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "demo", r.URL.Query().Get("api_token"))
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))

		switch r.URL.Path {
		case "/fundamentals/KO.US":
			_, _ = w.Write([]byte(fundamentalsJSON))
		case "/eod/KO.US":
			assert.Equal(t, "w", r.URL.Query().Get("period"))
			assert.Equal(t, "2023-06-02", r.URL.Query().Get("from"))
			_, _ = w.Write([]byte(eodJSON))
		case "/div/KO.US":
			_, _ = w.Write([]byte(divJSON))
		default:
			http.NotFound(w, r)
		}
	})

	data, err := c.Fetch(context.Background(), "KO")
	require.NoError(t, err)

	rec := data.Record
	assert.Equal(t, "KO", rec.Symbol)
	assert.Equal(t, "Consumer Defensive", rec.Sector)
	assert.Equal(t, contracts.Some(61.0), rec.Metrics.MarketPrice, "latest close")
	assert.Equal(t, contracts.Some(24.3), rec.Metrics.TrailingPE, "valuation wins over highlights")
	assert.Equal(t, contracts.Some(21.3), rec.Metrics.ForwardPE)
	assert.Equal(t, contracts.Some(2.4), rec.Metrics.PEG)
	assert.False(t, rec.Metrics.PriceToBook.Valid, "NA is absent")
	assert.False(t, rec.Metrics.Beta.Valid, "zero placeholder is absent")
	assert.Equal(t, contracts.Some(68), rec.Metrics.TargetPrice)
	assert.InDelta(t, 3.1, rec.Metrics.DividendYield.Value, 1e-9)
	assert.False(t, rec.Metrics.RecommendationMean.Valid)
	assert.False(t, rec.Metrics.DebtToEquity.Valid)

	require.Len(t, data.History, 2)
	assert.Equal(t, 60.0, data.History[0].Close, "adjusted close preferred")

	require.Len(t, data.Dividends, 2)
	assert.Equal(t, 2022, data.Dividends[0].Date.Year())
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		transient bool
		check     func(t *testing.T, err error)
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "/fundamentals/ZZZ.US", apiErr.Endpoint)
			},
		},
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			transient: true,
			check: func(t *testing.T, err error) {
				var rlErr *RateLimitError
				require.ErrorAs(t, err, &rlErr)
			},
		},
		{
			name:      "server error",
			status:    http.StatusBadGateway,
			transient: true,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "error", tt.status)
			})

			_, err := c.Fetch(context.Background(), "ZZZ")
			var fetchErr *contracts.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.transient, fetchErr.Transient)
			tt.check(t, err)
		})
	}
}

func TestTicker(t *testing.T) {
	c := NewClient("k", nil, logger.Nop())
	assert.Equal(t, "AAPL.US", c.Ticker("AAPL"))
	assert.Equal(t, "BHP.AU", c.Ticker("BHP.AU"))
	assert.Equal(t, "BHP", NewClient("k", nil, logger.Nop(), WithExchange("")).Ticker("BHP"))
}

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  contracts.Optional
	}{
		{`1.5`, contracts.Some(1.5)},
		{`"2.25"`, contracts.Some(2.25)},
		{`"NA"`, contracts.None()},
		{`null`, contracts.None()},
		{`0`, contracts.None()},
		{`-3`, contracts.Some(-3)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var n number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.want, n.Optional())
		})
	}
}
