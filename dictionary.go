package sitesearch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var _ TermSource = (*Dictionary)(nil)

// Dictionary is a read-only, sorted set of correctly spelled words.
// The zero value is an empty dictionary.
type Dictionary struct {
	words []string
}

// NewDictionary builds a dictionary from words. Words are trimmed,
// lowercased and NFC-normalized; blanks and duplicates are dropped.
func NewDictionary(words []string) *Dictionary {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(norm.NFC.String(strings.TrimSpace(w)))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return &Dictionary{words: out}
}

// ParseDictionary reads a newline-delimited word list.
// Lines starting with '#' are comments.
func ParseDictionary(r io.Reader) (*Dictionary, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return NewDictionary(words), nil
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// Contains reports whether word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	if d == nil {
		return false
	}
	i := sort.SearchStrings(d.words, word)
	return i < len(d.words) && d.words[i] == word
}

// Terms returns the words starting with prefix, in sorted order.
func (d *Dictionary) Terms(_ context.Context, prefix string) ([]string, error) {
	if d == nil {
		return nil, nil
	}
	i := sort.SearchStrings(d.words, prefix)
	j := i
	for j < len(d.words) && strings.HasPrefix(d.words[j], prefix) {
		j++
	}
	return d.words[i:j:j], nil
}
