package search

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/sitesearch"
)

// FragmentSeparator joins highlighted fragments.
const FragmentSeparator = "..."

type fragment struct {
	start, end int
	matches    []highlightMatch
}

type highlightMatch struct {
	sitesearch.Token
	class int
}

// Highlight builds an HTML snippet of content around occurrences of terms.
// terms maps each matched term to its class number, rendered as
// <b class="match termN">. Fragments hold matches spanning at most
// cfg.MaxChars characters plus up to cfg.Surround characters of context on
// each side, cut at word boundaries. The cfg.Top fragments with the most
// matches are kept in document order. Without any match the snippet is the
// first cfg.MaxChars characters of content.
func Highlight(content string, terms map[string]int, cfg HighlightConfig) string {
	tokens := sitesearch.TokenizeWithOffsets(content)

	var matches []highlightMatch
	for _, tok := range tokens {
		if class, ok := terms[tok.Term]; ok {
			matches = append(matches, highlightMatch{Token: tok, class: class})
		}
	}
	if len(matches) == 0 {
		return html.EscapeString(runePrefix(content, cfg.MaxChars))
	}

	var frags []*fragment
	for i := 0; i < len(matches); {
		j := i + 1
		for j < len(matches) && utf8.RuneCountInString(content[matches[i].Start:matches[j].End]) <= cfg.MaxChars {
			j++
		}
		first, last := matches[i], matches[j-1]
		frags = append(frags, &fragment{
			start:   contextStart(content, tokens, first.Start, cfg.Surround),
			end:     contextEnd(content, tokens, last.End, cfg.Surround),
			matches: matches[i:j],
		})
		i = j
	}

	sort.SliceStable(frags, func(i, j int) bool {
		return len(frags[i].matches) > len(frags[j].matches)
	})
	if cfg.Top > 0 && len(frags) > cfg.Top {
		frags = frags[:cfg.Top]
	}
	sort.Slice(frags, func(i, j int) bool { return frags[i].start < frags[j].start })

	// Neighbouring fragments must not repeat text.
	for i := 1; i < len(frags); i++ {
		prev, next := frags[i-1], frags[i]
		if next.start < prev.end {
			prev.end = prev.matches[len(prev.matches)-1].End
			next.start = max(next.start, prev.end)
		}
	}

	parts := make([]string, len(frags))
	for i, f := range frags {
		parts[i] = strings.TrimSpace(renderFragment(content, f))
	}
	return strings.Join(parts, FragmentSeparator)
}

func renderFragment(content string, f *fragment) string {
	var b strings.Builder
	pos := f.start
	for _, m := range f.matches {
		b.WriteString(html.EscapeString(content[pos:m.Start]))
		fmt.Fprintf(&b, `<b class="match term%d">%s</b>`, m.class, html.EscapeString(content[m.Start:m.End]))
		pos = m.End
	}
	b.WriteString(html.EscapeString(content[pos:f.end]))
	return b.String()
}

// contextStart moves back up to n characters from offset, then forward to
// the start of the first whole word.
func contextStart(content string, tokens []sitesearch.Token, offset, n int) int {
	start := offset
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(content[:start])
		start -= size
	}
	if start == 0 {
		return 0
	}
	k := sort.Search(len(tokens), func(k int) bool { return tokens[k].Start >= start })
	return tokens[k].Start
}

// contextEnd moves forward up to n characters from offset, then back to the
// end of the last whole word.
func contextEnd(content string, tokens []sitesearch.Token, offset, n int) int {
	end := offset
	for i := 0; i < n && end < len(content); i++ {
		_, size := utf8.DecodeRuneInString(content[end:])
		end += size
	}
	if end == len(content) {
		return end
	}
	k := sort.Search(len(tokens), func(k int) bool { return tokens[k].End > end })
	return tokens[k-1].End
}
