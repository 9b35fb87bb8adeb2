package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

const quoteSummaryJSON = `{"quoteSummary":{"result":[{
  "price":{"symbol":"KO","shortName":"Coca-Cola","longName":"The Coca-Cola Company","regularMarketPrice":{"raw":61.5,"fmt":"61.50"}},
  "summaryProfile":{"sector":"Consumer Defensive","industry":"Beverages"},
  "summaryDetail":{"trailingPE":{"raw":24.1},"forwardPE":{},"beta":{"raw":0.58},"dividendYield":{"raw":0.031}},
  "defaultKeyStatistics":{"pegRatio":{"raw":2.4},"priceToBook":{"raw":10.2},"forwardPE":{"raw":21.3}},
  "financialData":{"currentPrice":{"raw":61.8},"targetMeanPrice":{"raw":68},"recommendationMean":{"raw":2.1},"debtToEquity":{}}
}],"error":null}}`

const historyJSON = `{"chart":{"result":[{
  "meta":{"symbol":"KO","currency":"USD","regularMarketPrice":61.8},
  "timestamp":[1704067200,1704499200,1704931200,1705363200],
  "indicators":{"quote":[{"close":[60.0,null,61.2,61.8]}]}
}],"error":null}}`

const dividendsJSON = `{"chart":{"result":[{
  "meta":{"symbol":"KO"},
  "timestamp":[],
  "events":{"dividends":{
    "1702425600":{"amount":0.46,"date":1702425600},
    "1670976000":{"amount":0.44,"date":1670976000}
  }},
  "indicators":{"quote":[{"close":[]}]}
}],"error":null}}`

type fakeYahoo struct {
	server       *httptest.Server
	crumbCalls   int32
	rejectFirst  int32
	missingChart bool
}

func newFakeYahoo(t *testing.T) *fakeYahoo {
	f := &fakeYahoo{}
	mux := http.NewServeMux()

	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session", Path: "/"})
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.crumbCalls, 1)
		if _, err := r.Cookie("A3"); err != nil {
			http.Error(w, "no cookie", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("abc123"))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		if atomic.CompareAndSwapInt32(&f.rejectFirst, 1, 0) {
			http.Error(w, `{"finance":{"error":{"code":"Unauthorized","description":"Invalid Crumb"}}}`, http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("crumb") != "abc123" {
			http.Error(w, "bad crumb", http.StatusUnauthorized)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/NOPE") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for symbol: NOPE"}}}`))
			return
		}
		assert.Equal(t, quoteModules, r.URL.Query().Get("modules"))
		_, _ = w.Write([]byte(quoteSummaryJSON))
	})
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		if f.missingChart {
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
			return
		}
		if r.URL.Query().Get("events") == "div" {
			assert.Equal(t, "max", r.URL.Query().Get("range"))
			_, _ = w.Write([]byte(dividendsJSON))
			return
		}
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "5d", r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(historyJSON))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeYahoo) client() *Client {
	cfg := &config.Config{HTTP: config.HTTPConfig{RatePerSec: 100}}
	httpClient := httputil.New(cfg, logger.Nop()).DisableRetry()
	return NewClient(httpClient, logger.Nop(),
		WithBaseURL(f.server.URL),
		WithSessionURL(f.server.URL+"/session"),
	)
}

func TestFetch(t *testing.T) {
	f := newFakeYahoo(t)
	c := f.client()

	data, err := c.Fetch(context.Background(), "KO")
	require.NoError(t, err)

	rec := data.Record
	assert.Equal(t, "KO", rec.Symbol)
	assert.Equal(t, "The Coca-Cola Company", rec.Name)
	assert.Equal(t, "Consumer Defensive", rec.Sector)

	m := rec.Metrics
	assert.Equal(t, contracts.Some(61.5), m.MarketPrice, "regularMarketPrice preferred")
	assert.Equal(t, contracts.Some(68), m.TargetPrice)
	assert.Equal(t, contracts.Some(24.1), m.TrailingPE)
	assert.Equal(t, contracts.Some(21.3), m.ForwardPE, "falls back to key statistics")
	assert.Equal(t, contracts.Some(2.4), m.PEG)
	assert.Equal(t, contracts.Some(10.2), m.PriceToBook)
	assert.False(t, m.DebtToEquity.Valid, "empty raw wrapper is absent")
	assert.Equal(t, contracts.Some(0.58), m.Beta)
	assert.InDelta(t, 3.1, m.DividendYield.Value, 1e-9)
	assert.Equal(t, contracts.Some(2.1), m.RecommendationMean)

	require.Len(t, data.History, 3, "null close skipped")
	assert.Equal(t, 60.0, data.History[0].Close)
	assert.Equal(t, 61.8, data.History[2].Close)

	require.Len(t, data.Dividends, 2)
	assert.Equal(t, 0.44, data.Dividends[0].Amount, "oldest first")
	assert.Equal(t, 2022, data.Dividends[0].Date.Year())

	// session reused across requests
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.crumbCalls))
}

func TestFetchRefreshesRejectedCrumb(t *testing.T) {
	f := newFakeYahoo(t)
	c := f.client()

	_, err := c.GetSecurity(context.Background(), "KO")
	require.NoError(t, err)

	atomic.StoreInt32(&f.rejectFirst, 1)
	_, err = c.GetSecurity(context.Background(), "KO")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.crumbCalls))
}

func TestFetchNotFound(t *testing.T) {
	f := newFakeYahoo(t)

	_, err := f.client().Fetch(context.Background(), "NOPE")
	require.Error(t, err)

	var fetchErr *contracts.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "NOPE", fetchErr.Symbol)
	assert.False(t, fetchErr.Transient)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not Found", apiErr.Code)
}

func TestChartErrorPayload(t *testing.T) {
	f := newFakeYahoo(t)
	f.missingChart = true

	_, err := f.client().GetPriceHistory(context.Background(), "KO")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "delisted")
}

func TestAPIErrorTemporary(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 429}).Temporary())
	assert.True(t, (&APIError{StatusCode: 503}).Temporary())
	assert.False(t, (&APIError{StatusCode: 404}).Temporary())
}

func TestInvalidCrumb(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>consent</html>"))
	}))
	defer server.Close()

	cfg := &config.Config{HTTP: config.HTTPConfig{RatePerSec: 100}}
	c := NewClient(httputil.New(cfg, logger.Nop()).DisableRetry(), logger.Nop(),
		WithBaseURL(server.URL), WithSessionURL(server.URL))

	_, err := c.GetSecurity(context.Background(), "KO")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "invalid crumb")
}

func TestMarketPriceFallsBackToCurrentPrice(t *testing.T) {
	current := 42.0
	var r quoteSummaryResult
	r.FinancialData.CurrentPrice = rawValue{Raw: &current}

	rec := toSecurityRecord("KO", r)
	assert.Equal(t, contracts.Some(42), rec.Metrics.MarketPrice)

	rec = toSecurityRecord("KO", quoteSummaryResult{})
	assert.False(t, rec.Metrics.MarketPrice.Valid)
}
