package sitesearch

import "context"

// SearchResult is one ranked hit for a query. It is computed per query and
// never persisted.
type SearchResult struct {
	DocID int64  `json:"-"`
	URL   string `json:"url"`
	Title string `json:"title"`

	// Score is the raw relevance score.
	Score float64 `json:"-"`

	// NormalizedScore is Score rescaled to [0,1] across the result set.
	NormalizedScore float64 `json:"score"`

	// Snippet is HTML with matched terms wrapped in <b class="match termN">.
	Snippet string `json:"snippet"`
}

// Searcher answers free-text queries.
type Searcher interface {
	// Search returns at most ten results ordered by descending relevance.
	// An empty or unparseable query returns no results and no error.
	Search(ctx context.Context, query string) ([]*SearchResult, error)
}

// Suggester proposes corrected versions of a query.
type Suggester interface {
	// Suggest returns full query strings with the last word replaced.
	Suggest(ctx context.Context, query string) ([]string, error)
}
