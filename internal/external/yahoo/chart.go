package yahoo

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/wonny/screener/internal/contracts"
)

// GetPriceHistory retrieves closes over the configured range and interval
func (c *Client) GetPriceHistory(ctx context.Context, symbol string) (contracts.PriceHistory, error) {
	params := url.Values{}
	params.Set("range", c.lookback)
	params.Set("interval", c.interval)

	result, err := c.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	return toPriceHistory(result), nil
}

// GetDividends retrieves the full dividend history, oldest first
func (c *Client) GetDividends(ctx context.Context, symbol string) (contracts.DividendSeries, error) {
	params := url.Values{}
	params.Set("range", "max")
	params.Set("interval", "1mo")
	params.Set("events", "div")

	result, err := c.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	return toDividendSeries(result), nil
}

func (c *Client) chart(ctx context.Context, symbol string, params url.Values) (*chartResult, error) {
	path := "/v8/finance/chart/" + url.PathEscape(symbol)

	var resp chartResponse
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: 200,
			Code:       resp.Chart.Error.Code,
			Message:    resp.Chart.Error.Description,
			Endpoint:   path,
		}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, &APIError{StatusCode: 200, Message: "empty chart result", Endpoint: path}
	}

	return &resp.Chart.Result[0], nil
}

// toPriceHistory pairs timestamps with closes, skipping null closes
func toPriceHistory(r *chartResult) contracts.PriceHistory {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	closes := r.Indicators.Quote[0].Close

	history := make(contracts.PriceHistory, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		history = append(history, contracts.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	return history
}

// toDividendSeries flattens the keyed dividend events into date order
func toDividendSeries(r *chartResult) contracts.DividendSeries {
	series := make(contracts.DividendSeries, 0, len(r.Events.Dividends))
	for _, ev := range r.Events.Dividends {
		series = append(series, contracts.DividendPayment{
			Date:   time.Unix(ev.Date, 0).UTC(),
			Amount: ev.Amount,
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}
