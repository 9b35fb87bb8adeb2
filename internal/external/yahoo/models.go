package yahoo

import "github.com/wonny/screener/internal/contracts"

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper. Missing metrics
// arrive as {} so Raw stays nil.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v rawValue) optional() contracts.Optional {
	return contracts.FromPtr(v.Raw)
}

type apiErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// errorEnvelope matches both {"chart":{"error":...}} and
// {"quoteSummary":{"error":...}}
type errorEnvelope struct {
	Chart struct {
		Error *apiErrorBody `json:"error"`
	} `json:"chart"`
	QuoteSummary struct {
		Error *apiErrorBody `json:"error"`
	} `json:"quoteSummary"`
	Finance struct {
		Error *apiErrorBody `json:"error"`
	} `json:"finance"`
}

func (e errorEnvelope) first() *apiErrorBody {
	switch {
	case e.Chart.Error != nil:
		return e.Chart.Error
	case e.QuoteSummary.Error != nil:
		return e.QuoteSummary.Error
	default:
		return e.Finance.Error
	}
}

// quoteSummaryResponse for /v10/finance/quoteSummary
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiErrorBody        `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price struct {
		Symbol             string   `json:"symbol"`
		ShortName          string   `json:"shortName"`
		LongName           string   `json:"longName"`
		RegularMarketPrice rawValue `json:"regularMarketPrice"`
	} `json:"price"`
	SummaryProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"summaryProfile"`
	SummaryDetail struct {
		TrailingPE    rawValue `json:"trailingPE"`
		ForwardPE     rawValue `json:"forwardPE"`
		Beta          rawValue `json:"beta"`
		DividendYield rawValue `json:"dividendYield"` // fraction
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		PEGRatio    rawValue `json:"pegRatio"`
		PriceToBook rawValue `json:"priceToBook"`
		ForwardPE   rawValue `json:"forwardPE"`
		Beta        rawValue `json:"beta"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		CurrentPrice       rawValue `json:"currentPrice"`
		TargetMeanPrice    rawValue `json:"targetMeanPrice"`
		RecommendationMean rawValue `json:"recommendationMean"`
		DebtToEquity       rawValue `json:"debtToEquity"` // percent
	} `json:"financialData"`
}

// chartResponse for /v8/finance/chart
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiErrorBody `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		Currency           string  `json:"currency"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]dividendEvent `json:"dividends"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"` // null for halted sessions
		} `json:"quote"`
	} `json:"indicators"`
}

type dividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}
