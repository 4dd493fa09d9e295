package sitesearch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Token is a word found in a text, with its byte offsets in that text.
type Token struct {
	Term  string
	Start int
	End   int
}

// NormalizeText applies Unicode NFC normalization and collapses every run of
// whitespace to a single space, trimming both ends.
func NormalizeText(s string) string {
	return CollapseWhitespace(norm.NFC.String(s))
}

// CollapseWhitespace collapses runs of whitespace to single spaces and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits s into lowercase terms. A term is a maximal run of Unicode
// letters, digits and combining marks.
func Tokenize(s string) []string {
	tokens := TokenizeWithOffsets(norm.NFC.String(s))
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = tok.Term
	}
	return terms
}

// TokenizeWithOffsets is Tokenize without normalization, reporting byte offsets
// into s. Callers that need terms identical to Tokenize pass NFC text, such as
// the output of NormalizeText.
func TokenizeWithOffsets(s string) []Token {
	var tokens []Token
	start := -1
	for i, r := range s {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{Term: strings.ToLower(s[start:i]), Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Term: strings.ToLower(s[start:]), Start: start, End: len(s)})
	}
	return tokens
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
