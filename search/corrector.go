package search

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/sitesearch"
)

// Ensure Corrector implements sitesearch.Suggester.
var _ sitesearch.Suggester = (*Corrector)(nil)

// Default source weights.
const (
	DefaultDictionaryWeight = 1.0
	DefaultVocabularyWeight = 0.1
)

// Source is a weighted list of known words.
type Source struct {
	Name   string
	Terms  sitesearch.TermSource
	Weight float64
}

// CorrectorPolicy holds the correction thresholds.
type CorrectorPolicy struct {
	Limit       int
	MaxDistance int
	PrefixTiers PrefixTiers
}

// DefaultCorrectorPolicy returns the default correction thresholds.
func DefaultCorrectorPolicy() CorrectorPolicy {
	return CorrectorPolicy{
		Limit:       6,
		MaxDistance: 2,
		PrefixTiers: DefaultCorrectorTiers,
	}
}

// Corrector suggests replacements for the last word of a query.
type Corrector struct {
	Sources []Source
	Policy  CorrectorPolicy

	// OnSourceError, if set, is called for every source that fails.
	// The failing source is skipped either way.
	OnSourceError func(source string, err error)
}

// NewCorrector returns a Corrector with the default policy.
func NewCorrector(sources ...Source) *Corrector {
	return &Corrector{Sources: sources, Policy: DefaultCorrectorPolicy()}
}

type candidate struct {
	word     string
	score    float64
	distance int
}

// Suggest returns full queries with the last word replaced by the best
// candidates. A candidate's score sums weight/(1+distance) over every source
// containing it. Queries that are empty or end in whitespace have no
// suggestions.
func (c *Corrector) Suggest(ctx context.Context, query string) ([]string, error) {
	head, word := splitLastWord(query)
	tokens := sitesearch.Tokenize(word)
	if len(tokens) != 1 {
		return []string{}, nil
	}
	token := tokens[0]

	byWord := make(map[string]*candidate)
	for _, src := range c.Sources {
		if src.Terms == nil {
			continue
		}
		terms, err := expand(ctx, src.Terms, token, c.Policy.PrefixTiers, c.Policy.MaxDistance)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if c.OnSourceError != nil {
				c.OnSourceError(src.Name, err)
			}
			continue
		}
		for term, d := range terms {
			cand, ok := byWord[term]
			if !ok {
				cand = &candidate{word: term, distance: d}
				byWord[term] = cand
			}
			cand.score += src.Weight / float64(1+d)
			cand.distance = min(cand.distance, d)
		}
	}

	cands := make([]*candidate, 0, len(byWord))
	for _, cand := range byWord {
		cands = append(cands, cand)
	}
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return a.word < b.word
	})
	if c.Policy.Limit > 0 && len(cands) > c.Policy.Limit {
		cands = cands[:c.Policy.Limit]
	}

	suggestions := make([]string, len(cands))
	for i, cand := range cands {
		suggestions[i] = head + cand.word
	}
	return suggestions, nil
}

// splitLastWord splits query after its last whitespace character. The head
// keeps everything up to and including that character.
func splitLastWord(query string) (head, word string) {
	i := strings.LastIndexFunc(query, unicode.IsSpace)
	if i < 0 {
		return "", query
	}
	_, size := utf8.DecodeRuneInString(query[i:])
	return query[:i+size], query[i+size:]
}
