package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesearch"
)

// Ensure LoggingSearcher implements sitesearch.Searcher and sitesearch.Suggester.
var (
	_ sitesearch.Searcher  = (*LoggingSearcher)(nil)
	_ sitesearch.Suggester = (*LoggingSearcher)(nil)
)

// SearchSuggester answers queries and proposes corrections.
type SearchSuggester interface {
	sitesearch.Searcher
	sitesearch.Suggester
}

// LoggingSearcher wraps a search engine with logging.
type LoggingSearcher struct {
	next   SearchSuggester
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next SearchSuggester, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped engine and logs the operation.
func (s *LoggingSearcher) Search(ctx context.Context, query string) (results []*sitesearch.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query)
}

// Suggest delegates to the wrapped engine and logs the operation.
func (s *LoggingSearcher) Suggest(ctx context.Context, query string) (suggestions []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("suggest",
			"query", query,
			"suggestions", len(suggestions),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Suggest(ctx, query)
}
