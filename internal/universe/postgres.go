package universe

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool used here
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads active symbols from a table with columns
// (symbol text, active bool, position int)
type PostgresSource struct {
	db      Querier
	query   string
	closeFn func()
}

// NewPostgresSource validates the table name and prepares the query
func NewPostgresSource(db Querier, table string) (*PostgresSource, error) {
	ident, err := parseIdentifier(table)
	if err != nil {
		return nil, configError("postgres", err)
	}

	return &PostgresSource{
		db:    db,
		query: fmt.Sprintf("SELECT symbol FROM %s WHERE active ORDER BY position, symbol", ident.Sanitize()),
	}, nil
}

// Symbols runs the universe query
func (s *PostgresSource) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, s.query)
	if err != nil {
		return nil, configError("postgres", fmt.Errorf("query universe: %w", err))
	}

	symbols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, configError("postgres", fmt.Errorf("scan universe: %w", err))
	}
	if len(symbols) == 0 {
		return nil, configError("postgres", fmt.Errorf("no active symbols"))
	}
	return symbols, nil
}

// Close releases the pool when this source owns it
func (s *PostgresSource) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// parseIdentifier accepts "table" or "schema.table"
func parseIdentifier(table string) (pgx.Identifier, error) {
	parts := strings.Split(strings.TrimSpace(table), ".")
	if len(parts) == 0 || len(parts) > 2 {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid table name %q", table)
		}
	}
	return pgx.Identifier(parts), nil
}
