// Package universe loads the ticker list to rank from a file, a PostgreSQL
// table or a constituents web page.
package universe

import (
	"context"
	"fmt"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/database"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// Source is a closable SymbolSource
type Source interface {
	contracts.SymbolSource
	Close()
}

// New builds the source selected by SYMBOLS_SOURCE
// ⭐ SSOT: 종목 유니버스 소스 선택은 여기서만
func New(ctx context.Context, cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) (Source, error) {
	switch cfg.Symbols.Source {
	case "file":
		return NewFileSource(cfg.Symbols.File), nil
	case "postgres":
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, configError("postgres", err)
		}
		src, err := NewPostgresSource(db.Pool, cfg.Symbols.Table)
		if err != nil {
			db.Close()
			return nil, err
		}
		src.closeFn = db.Close
		return src, nil
	case "html":
		return NewHTMLSource(httpClient, cfg.Symbols.URL, cfg.Symbols.Selector, log), nil
	default:
		return nil, configError("symbols", fmt.Errorf("unknown source %q", cfg.Symbols.Source))
	}
}

func configError(source string, err error) *contracts.ConfigurationError {
	return &contracts.ConfigurationError{Source: source, Err: err}
}
