package commands

import (
	"context"
	"fmt"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/external/eodhd"
	"github.com/wonny/screener/internal/external/yahoo"
	"github.com/wonny/screener/internal/fetcher"
	"github.com/wonny/screener/internal/ranking"
	"github.com/wonny/screener/internal/scoring"
	"github.com/wonny/screener/internal/screenconfig"
	"github.com/wonny/screener/internal/universe"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
	"github.com/wonny/screener/pkg/redis"
)

// app holds the wired pipeline shared by every command
type app struct {
	cfg     *config.Config
	profile *screenconfig.Profile
	log     *logger.Logger
	service *ranking.Service
	closers []func()
}

// loadSettings reads env config and the screen profile, applying CLI overrides
func loadSettings() (*config.Config, *screenconfig.Profile, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if provider != "" {
		cfg.Provider = provider
		if cfg.Provider == eodhd.ProviderName && cfg.EODHD.APIKey == "" {
			return nil, nil, &contracts.ConfigurationError{
				Source: "provider",
				Err:    fmt.Errorf("EODHD_API_KEY is required for --provider eodhd"),
			}
		}
	}
	if profilePath != "" {
		cfg.ProfilePath = profilePath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	profile, err := screenconfig.LoadOrDefault(cfg.ProfilePath)
	if err != nil {
		return nil, nil, &contracts.ConfigurationError{Source: "profile", Err: err}
	}
	return cfg, profile, nil
}

// bootstrap wires config → provider → fetcher → scoring → ranking service
func bootstrap(ctx context.Context) (*app, error) {
	cfg, profile, err := loadSettings()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)
	a := &app{cfg: cfg, profile: profile, log: log}

	source, err := a.newProvider(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	// universe pages are fetched without the provider quota
	symbols, err := universe.New(ctx, cfg, httputil.New(cfg, log), log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, symbols.Close)

	f := fetcher.New(source, profile.FetcherConfig(), log)
	engine := scoring.NewEngine(profile.ScoringEngineConfig(), log)
	pipeline := ranking.NewPipeline(f, engine, log)
	a.service = ranking.NewService(symbols, pipeline, profile.ReportOptions(), log)

	log.WithFields(map[string]interface{}{
		"provider": source.Name(),
		"symbols":  cfg.Symbols.Source,
		"profile":  profile.Meta.ProfileID,
		"workers":  f.Workers(),
	}).Info("Screener initialized")

	return a, nil
}

// newProvider builds the configured MarketDataSource on a rate-limited client
func (a *app) newProvider(ctx context.Context) (contracts.MarketDataSource, error) {
	httpClient := httputil.New(a.cfg, a.log)

	var limiter *redis.RateLimiter
	if a.cfg.Redis.Enabled {
		rc, err := redis.New(ctx, a.cfg)
		if err != nil {
			return nil, &contracts.ConfigurationError{Source: "redis", Err: err}
		}
		a.closers = append(a.closers, func() { _ = rc.Close() })
		limiter = redis.NewRateLimiter(rc, "screener")
	}

	fetch := a.profile.Fetch
	switch a.cfg.Provider {
	case yahoo.ProviderName:
		if limiter != nil {
			httpClient.WithRateLimiter(limiter, redis.YahooRateLimit)
		}
		return yahoo.NewClient(httpClient, a.log,
			yahoo.WithBaseURL(a.cfg.Yahoo.BaseURL),
			yahoo.WithSessionURL(a.cfg.Yahoo.SessionURL),
			yahoo.WithRange(fetch.Lookback, fetch.Interval),
		), nil
	case eodhd.ProviderName:
		if limiter != nil {
			httpClient.WithRateLimiter(limiter, redis.EODHDRateLimit)
		}
		lookback, ok := a.profile.LookbackDuration()
		if !ok {
			return nil, &contracts.ConfigurationError{
				Source: "profile",
				Err:    fmt.Errorf("lookback %q has no fixed duration for eodhd", fetch.Lookback),
			}
		}
		return eodhd.NewClient(a.cfg.EODHD.APIKey, httpClient, a.log,
			eodhd.WithBaseURL(a.cfg.EODHD.BaseURL),
			eodhd.WithExchange(fetch.EODHDExchange),
			eodhd.WithHistory(lookback, fetch.EODHDPeriod),
		), nil
	default:
		return nil, &contracts.ConfigurationError{
			Source: "provider",
			Err:    fmt.Errorf("unknown provider %q", a.cfg.Provider),
		}
	}
}

// Close releases the universe source and the redis connection
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
