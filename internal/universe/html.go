package universe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// HTMLSource scrapes tickers from a constituents page (Wikipedia S&P 500 by
// default)
type HTMLSource struct {
	httpClient *httputil.Client
	url        string
	selector   string
	logger     *logger.Logger
}

// NewHTMLSource creates a scraping symbol source
func NewHTMLSource(httpClient *httputil.Client, url, selector string, log *logger.Logger) *HTMLSource {
	return &HTMLSource{
		httpClient: httpClient,
		url:        url,
		selector:   selector,
		logger:     log.WithField("module", "universe"),
	}
}

// Symbols downloads the page and extracts the selected cells
func (s *HTMLSource) Symbols(ctx context.Context) ([]string, error) {
	body, err := s.httpClient.GetBody(ctx, s.url)
	if err != nil {
		return nil, configError("html", fmt.Errorf("fetch constituents page: %w", err))
	}

	symbols, err := ParseHTML(body, s.selector)
	if err != nil {
		return nil, configError("html", err)
	}
	if len(symbols) == 0 {
		return nil, configError("html", fmt.Errorf("selector %q matched no tickers", s.selector))
	}

	s.logger.WithFields(map[string]interface{}{
		"url":   s.url,
		"count": len(symbols),
	}).Info("Loaded symbols from constituents page")

	return symbols, nil
}

// Close is a no-op
func (s *HTMLSource) Close() {}

// ParseHTML extracts ticker text from every node matching selector.
// Class-share dots become dashes (BRK.B → BRK-B).
func ParseHTML(body []byte, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse constituents page: %w", err)
	}

	var symbols []string
	doc.Find(selector).Each(func(i int, cell *goquery.Selection) {
		ticker := strings.TrimSpace(cell.Text())
		if ticker == "" {
			return
		}
		symbols = append(symbols, strings.ReplaceAll(ticker, ".", "-"))
	})
	return symbols, nil
}
