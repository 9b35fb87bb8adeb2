package yahoo

import (
	"context"

	"github.com/wonny/screener/internal/contracts"
)

// ProviderName identifies Yahoo in logs and FetchErrors
const ProviderName = "yahoo"

var _ contracts.MarketDataSource = (*Client)(nil)

// Name implements contracts.MarketDataSource
func (c *Client) Name() string {
	return ProviderName
}

// Fetch implements contracts.MarketDataSource. Any failing request drops the
// whole symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) (*contracts.MarketData, error) {
	record, err := c.GetSecurity(ctx, symbol)
	if err != nil {
		return nil, contracts.NewFetchError(ProviderName, symbol, err)
	}

	dividends, err := c.GetDividends(ctx, symbol)
	if err != nil {
		return nil, contracts.NewFetchError(ProviderName, symbol, err)
	}

	history, err := c.GetPriceHistory(ctx, symbol)
	if err != nil {
		return nil, contracts.NewFetchError(ProviderName, symbol, err)
	}

	return &contracts.MarketData{
		Record:    *record,
		Dividends: dividends,
		History:   history,
	}, nil
}
