package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

const (
	// DefaultBaseURL is the base URL for the EODHD API.
	DefaultBaseURL = "https://eodhd.com/api"

	// DefaultExchange is appended to bare tickers (AAPL → AAPL.US).
	DefaultExchange = "US"

	// ProviderName identifies EODHD in logs and FetchErrors
	ProviderName = "eodhd"
)

// Client is an EODHD API client.
// ⭐ SSOT: EODHD API 호출은 이 클라이언트에서만
type Client struct {
	baseURL    string
	apiKey     string
	exchange   string
	lookback   time.Duration
	period     string
	httpClient *httputil.Client
	logger     *logger.Logger
	now        func() time.Time
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithExchange sets the exchange suffix for tickers without one.
func WithExchange(exchange string) ClientOption {
	return func(c *Client) {
		c.exchange = exchange
	}
}

// WithHistory sets the price lookback window and EOD period (d, w, m).
func WithHistory(lookback time.Duration, period string) ClientOption {
	return func(c *Client) {
		if lookback > 0 {
			c.lookback = lookback
		}
		if period != "" {
			c.period = period
		}
	}
}

// NewClient creates a new EODHD API client.
func NewClient(apiKey string, httpClient *httputil.Client, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		exchange:   DefaultExchange,
		lookback:   365 * 24 * time.Hour,
		period:     "w",
		httpClient: httpClient,
		logger:     log.WithField("provider", ProviderName),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	c.logger.WithField("url", c.baseURL+path).Debug("EODHD API request")

	body, err := c.httpClient.GetBody(ctx, reqURL)
	if err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) {
			if statusErr.StatusCode == http.StatusTooManyRequests {
				return &RateLimitError{RetryAfter: time.Minute}
			}
			return &APIError{
				StatusCode: statusErr.StatusCode,
				Message:    statusErr.Body,
				Endpoint:   path,
			}
		}
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Ticker converts a screener symbol into TICKER.EXCHANGE
func (c *Client) Ticker(symbol string) string {
	if strings.Contains(symbol, ".") || c.exchange == "" {
		return symbol
	}
	return symbol + "." + c.exchange
}

// GetEOD retrieves closes from now-lookback to now, oldest first.
func (c *Client) GetEOD(ctx context.Context, symbol string) (EODResponse, error) {
	now := c.now()
	params := url.Values{}
	params.Set("from", now.Add(-c.lookback).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))
	params.Set("period", c.period)
	params.Set("order", "a")

	var result EODResponse
	if err := c.get(ctx, "/eod/"+url.PathEscape(c.Ticker(symbol)), params, &result); err != nil {
		return nil, err
	}

	for i := range result {
		if t, err := time.Parse("2006-01-02", result[i].DateStr); err == nil {
			result[i].Date = t
		}
	}

	return result, nil
}

// GetFundamentals retrieves fundamental data for a symbol.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*FundamentalsResponse, error) {
	var result FundamentalsResponse
	if err := c.get(ctx, "/fundamentals/"+url.PathEscape(c.Ticker(symbol)), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDividends retrieves the full dividend history for a symbol.
func (c *Client) GetDividends(ctx context.Context, symbol string) (DividendsResponse, error) {
	var result DividendsResponse
	if err := c.get(ctx, "/div/"+url.PathEscape(c.Ticker(symbol)), nil, &result); err != nil {
		return nil, err
	}

	for i := range result {
		if t, err := time.Parse("2006-01-02", result[i].DateStr); err == nil {
			result[i].Date = t
		}
	}

	return result, nil
}

var _ contracts.MarketDataSource = (*Client)(nil)

// Name implements contracts.MarketDataSource
func (c *Client) Name() string {
	return ProviderName
}

// Fetch implements contracts.MarketDataSource
func (c *Client) Fetch(ctx context.Context, symbol string) (*contracts.MarketData, error) {
	fundamentals, err := c.GetFundamentals(ctx, symbol)
	if err != nil {
		return nil, contracts.NewFetchError(ProviderName, symbol, err)
	}

	eod, err := c.GetEOD(ctx, symbol)
	if err != nil {
		return nil, contracts.NewFetchError(ProviderName, symbol, err)
	}

	divs, err := c.GetDividends(ctx, symbol)
	if err != nil {
		return nil, contracts.NewFetchError(ProviderName, symbol, err)
	}

	history := toPriceHistory(eod)
	record := toSecurityRecord(symbol, fundamentals, history)

	return &contracts.MarketData{
		Record:    record,
		Dividends: toDividendSeries(divs),
		History:   history,
	}, nil
}

// toSecurityRecord maps fundamentals onto Metrics. The market price is the
// latest close. RecommendationMean and DebtToEquity are not offered.
func toSecurityRecord(symbol string, f *FundamentalsResponse, history contracts.PriceHistory) contracts.SecurityRecord {
	record := contracts.SecurityRecord{Symbol: symbol}

	if n := len(history); n > 0 {
		record.Metrics.MarketPrice = contracts.Some(history[n-1].Close)
	}

	if f.General != nil {
		record.Name = f.General.Name
		record.Sector = f.General.Sector
	}
	if f.Highlights != nil {
		record.Metrics.PEG = f.Highlights.PEGRatio.Optional()
		record.Metrics.TargetPrice = f.Highlights.WallStreetTargetPrice.Optional()
		record.Metrics.TrailingPE = f.Highlights.PERatio.Optional()
		if y := f.Highlights.DividendYield.Optional(); y.Valid {
			record.Metrics.DividendYield = contracts.Some(y.Value * 100)
		}
	}
	if f.Valuation != nil {
		if pe := f.Valuation.TrailingPE.Optional(); pe.Valid {
			record.Metrics.TrailingPE = pe
		}
		record.Metrics.ForwardPE = f.Valuation.ForwardPE.Optional()
		record.Metrics.PriceToBook = f.Valuation.PriceBookMRQ.Optional()
	}
	if f.Technicals != nil {
		record.Metrics.Beta = f.Technicals.Beta.Optional()
	}
	if f.AnalystRatings != nil && !record.Metrics.TargetPrice.Valid {
		record.Metrics.TargetPrice = f.AnalystRatings.TargetPrice.Optional()
	}

	return record
}

// toPriceHistory prefers the split/dividend adjusted close
func toPriceHistory(eod EODResponse) contracts.PriceHistory {
	history := make(contracts.PriceHistory, 0, len(eod))
	for _, d := range eod {
		if d.Date.IsZero() {
			continue
		}
		closePrice := d.AdjustedClose
		if closePrice == 0 {
			closePrice = d.Close
		}
		history = append(history, contracts.PricePoint{Date: d.Date, Close: closePrice})
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})
	return history
}

func toDividendSeries(divs DividendsResponse) contracts.DividendSeries {
	series := make(contracts.DividendSeries, 0, len(divs))
	for _, d := range divs {
		if d.Date.IsZero() {
			continue
		}
		series = append(series, contracts.DividendPayment{Date: d.Date, Amount: d.Value})
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}
