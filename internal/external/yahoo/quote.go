package yahoo

import (
	"context"
	"net/url"

	"github.com/wonny/screener/internal/contracts"
)

const quoteModules = "price,summaryProfile,summaryDetail,defaultKeyStatistics,financialData"

// GetSecurity retrieves name, sector and valuation metrics for a symbol
func (c *Client) GetSecurity(ctx context.Context, symbol string) (*contracts.SecurityRecord, error) {
	path := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)
	params := url.Values{}
	params.Set("modules", quoteModules)

	var resp quoteSummaryResponse
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.QuoteSummary.Error != nil {
		return nil, &APIError{
			StatusCode: 200,
			Code:       resp.QuoteSummary.Error.Code,
			Message:    resp.QuoteSummary.Error.Description,
			Endpoint:   path,
		}
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, &APIError{StatusCode: 200, Message: "empty quote summary", Endpoint: path}
	}

	record := toSecurityRecord(symbol, resp.QuoteSummary.Result[0])

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"sector": record.Sector,
	}).Debug("Fetched quote summary")

	return record, nil
}

// toSecurityRecord maps quoteSummary modules onto Metrics. The market price is
// price.regularMarketPrice, with financialData.currentPrice as fallback;
// forwardPE and beta fall back to defaultKeyStatistics.
func toSecurityRecord(symbol string, r quoteSummaryResult) *contracts.SecurityRecord {
	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}

	price := r.Price.RegularMarketPrice.optional()
	if !price.Valid {
		price = r.FinancialData.CurrentPrice.optional()
	}

	forward := r.SummaryDetail.ForwardPE.optional()
	if !forward.Valid {
		forward = r.DefaultKeyStatistics.ForwardPE.optional()
	}

	beta := r.SummaryDetail.Beta.optional()
	if !beta.Valid {
		beta = r.DefaultKeyStatistics.Beta.optional()
	}

	yield := r.SummaryDetail.DividendYield.optional()
	if yield.Valid {
		yield = contracts.Some(yield.Value * 100)
	}

	return &contracts.SecurityRecord{
		Symbol: symbol,
		Name:   name,
		Sector: r.SummaryProfile.Sector,
		Metrics: contracts.Metrics{
			MarketPrice:        price,
			TargetPrice:        r.FinancialData.TargetMeanPrice.optional(),
			TrailingPE:         r.SummaryDetail.TrailingPE.optional(),
			ForwardPE:          forward,
			PEG:                r.DefaultKeyStatistics.PEGRatio.optional(),
			PriceToBook:        r.DefaultKeyStatistics.PriceToBook.optional(),
			DebtToEquity:       r.FinancialData.DebtToEquity.optional(),
			Beta:               beta,
			DividendYield:      yield,
			RecommendationMean: r.FinancialData.RecommendationMean.optional(),
		},
	}
}
