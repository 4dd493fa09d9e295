// Package search ranks indexed documents against free-text queries and
// proposes did-you-mean corrections.
package search

import (
	"context"
	"math"
	"sort"

	"github.com/fwojciec/sitesearch"
)

// Ensure Engine implements sitesearch.Searcher and sitesearch.Suggester.
var (
	_ sitesearch.Searcher  = (*Engine)(nil)
	_ sitesearch.Suggester = (*Engine)(nil)
)

// HighlightConfig controls snippet construction.
type HighlightConfig struct {
	// MaxChars caps the span from the first to the last match in a fragment.
	// It is also the length of the fallback snippet.
	MaxChars int

	// Surround is the context kept on each side of a fragment's matches.
	Surround int

	// Top is the maximum number of fragments.
	Top int
}

// Config holds the ranking policy.
type Config struct {
	Limit       int
	MaxDistance int
	PrefixTiers PrefixTiers

	// K1 and B are the BM25 term frequency saturation and length
	// normalization parameters.
	K1 float64
	B  float64

	// FieldBoosts multiplies each field's score. Missing fields use 1.0.
	FieldBoosts map[sitesearch.Field]float64

	Highlight HighlightConfig
}

// DefaultConfig returns the default ranking policy.
func DefaultConfig() Config {
	return Config{
		Limit:       10,
		MaxDistance: 2,
		PrefixTiers: DefaultSearchTiers,
		K1:          1.2,
		B:           0.75,
		Highlight: HighlightConfig{
			MaxChars: 100,
			Surround: 40,
			Top:      3,
		},
	}
}

// Engine answers queries against an index.
type Engine struct {
	Index     sitesearch.IndexService
	Corrector *Corrector
	Config    Config
}

// NewEngine returns an Engine with the default configuration.
func NewEngine(index sitesearch.IndexService, corrector *Corrector) *Engine {
	return &Engine{Index: index, Corrector: corrector, Config: DefaultConfig()}
}

// Suggest delegates to the Corrector. Without one it returns no suggestions.
func (e *Engine) Suggest(ctx context.Context, query string) ([]string, error) {
	if e.Corrector == nil {
		return []string{}, nil
	}
	return e.Corrector.Suggest(ctx, query)
}

// Search returns the best matching documents for query, highest score first.
// Every query token is expanded to the index terms within the configured
// edit distance, and a document matches if any expanded term occurs in its
// title or content.
func (e *Engine) Search(ctx context.Context, query string) ([]*sitesearch.SearchResult, error) {
	tokens := uniqueTokens(sitesearch.Tokenize(query))
	if len(tokens) == 0 {
		return []*sitesearch.SearchResult{}, nil
	}

	results := []*sitesearch.SearchResult{}
	err := e.Index.View(ctx, func(r sitesearch.IndexReader) error {
		stats, err := r.Stats(ctx)
		if err != nil {
			return err
		}
		if stats.Documents == 0 {
			return nil
		}

		// Each matched term maps to the first query token it expands from.
		matched := make(map[string]int)
		for i, token := range tokens {
			terms, err := expand(ctx, r, token, e.Config.PrefixTiers, e.Config.MaxDistance)
			if err != nil {
				return err
			}
			for term := range terms {
				if _, ok := matched[term]; !ok {
					matched[term] = i
				}
			}
		}

		scores := make(map[int64]float64)
		for term := range matched {
			postings, err := r.Postings(ctx, term)
			if err != nil {
				return err
			}
			e.score(scores, stats, postings)
		}

		for _, hit := range topHits(scores, e.Config.Limit) {
			doc, err := r.FindDocumentByID(ctx, hit.id)
			if err != nil {
				return err
			}
			results = append(results, &sitesearch.SearchResult{
				DocID:   doc.ID,
				URL:     doc.URL,
				Title:   doc.Title,
				Score:   hit.score,
				Snippet: Highlight(doc.Content, matched, e.Config.Highlight),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	Normalize(results)
	return results, nil
}

// score adds the BM25 contribution of one term's postings to scores.
func (e *Engine) score(scores map[int64]float64, stats *sitesearch.IndexStats, postings []sitesearch.Posting) {
	df := make(map[sitesearch.Field]int)
	for _, p := range postings {
		df[p.Field]++
	}

	n := float64(stats.Documents)
	for _, p := range postings {
		idf := math.Log(n/float64(df[p.Field]+1)) + 1

		avg := stats.AvgLength[p.Field]
		if avg <= 0 {
			avg = 1
		}
		tf := float64(p.Frequency)
		norm := 1 - e.Config.B + e.Config.B*float64(p.Length)/avg

		scores[p.DocID] += e.boost(p.Field) * idf * tf * (e.Config.K1 + 1) / (tf + e.Config.K1*norm)
	}
}

func (e *Engine) boost(f sitesearch.Field) float64 {
	if b, ok := e.Config.FieldBoosts[f]; ok {
		return b
	}
	return 1
}

type hit struct {
	id    int64
	score float64
}

// topHits orders documents by descending score, then ascending ID, and keeps
// at most limit. A limit of zero keeps everything.
func topHits(scores map[int64]float64, limit int) []hit {
	hits := make([]hit, 0, len(scores))
	for id, score := range scores {
		hits = append(hits, hit{id: id, score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].id < hits[j].id
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Normalize sets NormalizedScore by min-max scaling Score across results.
// When all scores are equal every result gets 1.0.
func Normalize(results []*sitesearch.SearchResult) {
	if len(results) == 0 {
		return
	}
	lo, hi := results[0].Score, results[0].Score
	for _, r := range results[1:] {
		lo = math.Min(lo, r.Score)
		hi = math.Max(hi, r.Score)
	}
	for _, r := range results {
		if hi == lo {
			r.NormalizedScore = 1
			continue
		}
		r.NormalizedScore = (r.Score - lo) / (hi - lo)
	}
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0:0]
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
