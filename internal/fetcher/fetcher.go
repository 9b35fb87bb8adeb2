// Package fetcher fans per-symbol market data requests out over a bounded pool.
package fetcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// DefaultWorkers bounds concurrent fetches when Config.Workers is unset
const DefaultWorkers = 15

// Config holds fetcher configuration
type Config struct {
	Workers int // Number of concurrent fetches
}

// Fetcher orchestrates concurrent fetches against one MarketDataSource
// ⭐ SSOT: 시세 수집 동시성 제어는 이 패키지에서만
type Fetcher struct {
	source contracts.MarketDataSource
	cfg    Config
	logger *logger.Logger
}

// Batch is the outcome of one FetchAll. Records and Failures are both in
// input-symbol order.
type Batch struct {
	Records  []*contracts.MarketData
	Failures []contracts.FetchFailure
}

// fetchResult carries the input position through the pool
type fetchResult struct {
	index int
	data  *contracts.MarketData
	err   error
}

// New creates a Fetcher
func New(source contracts.MarketDataSource, cfg Config, log *logger.Logger) *Fetcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Fetcher{
		source: source,
		cfg:    cfg,
		logger: log.WithField("module", "fetcher"),
	}
}

// Workers returns the effective pool size
func (f *Fetcher) Workers() int {
	return f.cfg.Workers
}

// FetchAll fetches every symbol with at most Workers requests in flight.
// A failing symbol never aborts the batch; it is reported in Batch.Failures.
func (f *Fetcher) FetchAll(ctx context.Context, symbols []string) Batch {
	start := time.Now()

	f.logger.WithFields(map[string]interface{}{
		"symbols":  len(symbols),
		"workers":  f.cfg.Workers,
		"provider": f.source.Name(),
	}).Info("Starting market data fetch")

	p := pool.NewWithResults[fetchResult]().WithMaxGoroutines(f.cfg.Workers)

	for i, symbol := range symbols {
		idx, sym := i, symbol
		p.Go(func() fetchResult {
			data, err := f.fetchOne(ctx, sym)
			return fetchResult{index: idx, data: data, err: err}
		})
	}

	results := p.Wait()

	// Pool results arrive in completion order
	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})

	batch := Batch{
		Records: make([]*contracts.MarketData, 0, len(results)),
	}
	for _, r := range results {
		if r.err != nil {
			fe := contracts.NewFetchError(f.source.Name(), symbols[r.index], r.err)
			batch.Failures = append(batch.Failures, contracts.FetchFailure{
				Symbol:    symbols[r.index],
				Error:     fe.Error(),
				Transient: fe.Transient,
			})
			continue
		}
		batch.Records = append(batch.Records, r.data)
	}

	f.logger.WithFields(map[string]interface{}{
		"succeeded": len(batch.Records),
		"failed":    len(batch.Failures),
		"duration":  time.Since(start).String(),
	}).Info("Market data fetch completed")

	return batch
}

// fetchOne converts panics and nil results into errors so one bad provider
// response cannot take the batch down
func (f *Fetcher) fetchOne(ctx context.Context, symbol string) (data *contracts.MarketData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
			data = nil
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err = f.source.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("provider returned no data")
	}
	return data, nil
}
