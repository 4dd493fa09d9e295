package mock

import (
	"context"

	"github.com/fwojciec/sitesearch"
)

var _ sitesearch.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of sitesearch.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string) ([]*sitesearch.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string) ([]*sitesearch.SearchResult, error) {
	return s.SearchFn(ctx, query)
}

var _ sitesearch.Suggester = (*Suggester)(nil)

// Suggester is a mock implementation of sitesearch.Suggester.
type Suggester struct {
	SuggestFn func(ctx context.Context, query string) ([]string, error)
}

func (s *Suggester) Suggest(ctx context.Context, query string) ([]string, error) {
	return s.SuggestFn(ctx, query)
}
