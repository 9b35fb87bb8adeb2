// Package yahoo fetches quote metadata, price history and dividends from the
// public Yahoo Finance JSON endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

const (
	// DefaultBaseURL is the Yahoo Finance query host
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultSessionURL hands out the consent cookie the crumb is bound to
	DefaultSessionURL = "https://fc.yahoo.com"

	// DefaultRange / DefaultInterval select one year of 5-day samples
	DefaultRange    = "1y"
	DefaultInterval = "5d"
)

// Client handles communication with Yahoo Finance
// ⭐ SSOT: Yahoo Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	sessionURL string
	lookback   string
	interval   string

	mu    sync.Mutex
	crumb string
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom query host
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithSessionURL sets the page visited to obtain the session cookie
func WithSessionURL(sessionURL string) ClientOption {
	return func(c *Client) {
		c.sessionURL = sessionURL
	}
}

// WithRange sets the price history lookback and sampling interval (Yahoo
// notation: 1y, 6mo / 1d, 5d, 1wk)
func WithRange(lookback, interval string) ClientOption {
	return func(c *Client) {
		if lookback != "" {
			c.lookback = lookback
		}
		if interval != "" {
			c.interval = interval
		}
	}
}

// NewClient creates a new Yahoo Finance client. The httputil client must keep
// a cookie jar; httputil.New provides one.
func NewClient(httpClient *httputil.Client, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", ProviderName),
		baseURL:    DefaultBaseURL,
		sessionURL: DefaultSessionURL,
		lookback:   DefaultRange,
		interval:   DefaultInterval,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a non-200 response or an error payload from Yahoo
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("yahoo API error: %s: %s (status: %d, endpoint: %s)", e.Code, e.Message, e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Temporary reports whether the request may succeed later (429, 5xx)
func (e *APIError) Temporary() bool {
	return httputil.IsRetryableError(e.StatusCode)
}

// ensureCrumb establishes the cookie session once and caches the crumb
func (c *Client) ensureCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb, nil
	}

	// fc.yahoo.com answers 404 but still sets the A3 cookie
	resp, err := c.httpClient.Get(ctx, c.sessionURL)
	if err != nil {
		return "", fmt.Errorf("open yahoo session: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	body, err := c.httpClient.GetBody(ctx, c.baseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", c.apiError("/v1/test/getcrumb", err)
	}

	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", &APIError{StatusCode: http.StatusOK, Message: "invalid crumb received", Endpoint: "/v1/test/getcrumb"}
	}

	c.crumb = crumb
	c.logger.Debug("Yahoo session established")
	return crumb, nil
}

// resetCrumb drops a crumb the server rejected
func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

// getJSON performs an authenticated GET, refreshing the crumb once on 401
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, result interface{}) error {
	for attempt := 0; attempt < 2; attempt++ {
		crumb, err := c.ensureCrumb(ctx)
		if err != nil {
			return err
		}

		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("crumb", crumb)

		body, err := c.httpClient.GetBody(ctx, fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode()))
		if err != nil {
			apiErr := c.apiError(path, err)
			var ae *APIError
			if attempt == 0 && errors.As(apiErr, &ae) && ae.StatusCode == http.StatusUnauthorized {
				c.logger.WithField("endpoint", path).Warn("Yahoo crumb rejected, refreshing session")
				c.resetCrumb()
				continue
			}
			return apiErr
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return &APIError{StatusCode: http.StatusUnauthorized, Message: "crumb rejected after refresh", Endpoint: path}
}

// apiError converts an httputil.StatusError into an APIError, decoding the
// Yahoo error envelope when present
func (c *Client) apiError(path string, err error) error {
	var statusErr *httputil.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	apiErr := &APIError{
		StatusCode: statusErr.StatusCode,
		Message:    statusErr.Body,
		Endpoint:   path,
	}

	var envelope errorEnvelope
	if json.Unmarshal([]byte(statusErr.Body), &envelope) == nil {
		if e := envelope.first(); e != nil {
			apiErr.Code = e.Code
			apiErr.Message = e.Description
		}
	}
	return apiErr
}
