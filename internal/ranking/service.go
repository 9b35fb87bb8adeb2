package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/report"
	"github.com/wonny/screener/pkg/logger"
)

// ErrRefreshInProgress is returned when a refresh is already running
var ErrRefreshInProgress = errors.New("ranking refresh already in progress")

// Listener is notified after every successful refresh
type Listener func(*report.Report)

// Service loads the symbol universe, runs the ranker and keeps the latest
// report in memory. Nothing is persisted between runs.
// ⭐ SSOT: 최신 랭킹 리포트는 여기서만 보관
type Service struct {
	symbols contracts.SymbolSource
	ranker  contracts.Ranker
	opts    report.Options
	logger  *logger.Logger

	mu        sync.RWMutex
	latest    *report.Report
	listeners []Listener

	refreshMu sync.Mutex
	running   bool
}

// NewService creates a ranking service
func NewService(symbols contracts.SymbolSource, ranker contracts.Ranker, opts report.Options, log *logger.Logger) *Service {
	return &Service{
		symbols: symbols,
		ranker:  ranker,
		opts:    opts,
		logger:  log.WithField("module", "ranking_service"),
	}
}

// Subscribe registers a listener called after each refresh
func (s *Service) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Latest returns the most recent report, or nil before the first refresh
func (s *Service) Latest() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Refresh runs one full ranking and swaps the result in. Only one refresh
// runs at a time.
func (s *Service) Refresh(ctx context.Context) (*report.Report, error) {
	s.refreshMu.Lock()
	if s.running {
		s.refreshMu.Unlock()
		return nil, ErrRefreshInProgress
	}
	s.running = true
	s.refreshMu.Unlock()

	defer func() {
		s.refreshMu.Lock()
		s.running = false
		s.refreshMu.Unlock()
	}()

	symbols, err := s.symbols.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}

	result, err := s.ranker.Rank(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	rep := report.Build(result, s.opts)

	s.mu.Lock()
	s.latest = rep
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(rep)
	}

	s.logger.WithFields(map[string]interface{}{
		"ranked":   len(rep.Rows),
		"failures": len(rep.Failures),
	}).Info("Ranking report refreshed")

	return rep, nil
}
