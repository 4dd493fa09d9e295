package search

import (
	"context"
	"sort"
	"strings"

	"github.com/fwojciec/sitesearch"
)

// WholeToken as a tier prefix requires the entire token to match exactly.
const WholeToken = -1

// PrefixTier requires Prefix leading characters to match exactly for tokens
// of at least MinLength characters.
type PrefixTier struct {
	MinLength int
	Prefix    int
}

// PrefixTiers maps token length to a required exact prefix length.
type PrefixTiers []PrefixTier

// Required returns the exact prefix length required for a token of n
// characters. The tier with the largest MinLength not above n applies.
// Tokens shorter than every tier must match whole. The result never exceeds n.
func (t PrefixTiers) Required(n int) int {
	tiers := make(PrefixTiers, len(t))
	copy(tiers, t)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinLength < tiers[j].MinLength })

	required := WholeToken
	for _, tier := range tiers {
		if n >= tier.MinLength {
			required = tier.Prefix
		}
	}
	if required < 0 || required > n {
		return n
	}
	return required
}

// DefaultSearchTiers are the prefix tiers for fuzzy query expansion.
var DefaultSearchTiers = PrefixTiers{
	{MinLength: 1, Prefix: WholeToken},
	{MinLength: 2, Prefix: 2},
	{MinLength: 5, Prefix: 1},
	{MinLength: 7, Prefix: 0},
}

// DefaultCorrectorTiers are the prefix tiers for did-you-mean candidates.
var DefaultCorrectorTiers = PrefixTiers{
	{MinLength: 1, Prefix: WholeToken},
	{MinLength: 2, Prefix: 1},
	{MinLength: 5, Prefix: 0},
}

// runePrefix returns the first n characters of s.
func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for j := range s {
		if i == n {
			return s[:j]
		}
		i++
	}
	return s
}

// expand returns the terms of src within maxDistance edits of token that
// share the exact prefix its length requires, mapped to their distance.
func expand(ctx context.Context, src sitesearch.TermSource, token string, tiers PrefixTiers, maxDistance int) (map[string]int, error) {
	prefix := runePrefix(token, tiers.Required(sitesearch.RuneLen(token)))
	terms, err := src.Terms(ctx, prefix)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int)
	for _, term := range terms {
		if !strings.HasPrefix(term, prefix) {
			continue
		}
		if d := Distance(token, term, maxDistance); d <= maxDistance {
			out[term] = d
		}
	}
	return out, nil
}
