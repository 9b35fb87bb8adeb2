package contracts

import "context"

// MarketDataSource fetches metadata, dividends and price history for one symbol.
// Implementations return *FetchError on failure and must be safe for
// concurrent use.
// ⭐ SSOT: 외부 시세 제공자 인터페이스
type MarketDataSource interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (*MarketData, error)
}

// SymbolSource yields the ticker universe to rank
type SymbolSource interface {
	Symbols(ctx context.Context) ([]string, error)
}

// Ranker runs the full fetch → aggregate → score → sort pipeline
type Ranker interface {
	Rank(ctx context.Context, symbols []string) (*RankingResult, error)
}
