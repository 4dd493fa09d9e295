package sitesearch_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/sitesearch"
	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "lowercases words", input: "Cats and Dogs", want: []string{"cats", "and", "dogs"}},
		{name: "splits on punctuation", input: "hello, world! it's", want: []string{"hello", "world", "it", "s"}},
		{name: "keeps digits", input: "Go 1.25 release", want: []string{"go", "1", "25", "release"}},
		{name: "unicode letters", input: "Über straße café", want: []string{"über", "straße", "café"}},
		{name: "composes decomposed input", input: "café", want: []string{"café"}},
		{name: "punctuation only", input: "?!... --", want: nil},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sitesearch.Tokenize(tt.input))
		})
	}
}

func TestTokenizeWithOffsets(t *testing.T) {
	t.Parallel()

	text := "Cats are great"
	tokens := sitesearch.TokenizeWithOffsets(text)

	assert.Equal(t, []sitesearch.Token{
		{Term: "cats", Start: 0, End: 4},
		{Term: "are", Start: 5, End: 8},
		{Term: "great", Start: 9, End: 14},
	}, tokens)
	for _, tok := range tokens {
		assert.Equal(t, tok.Term, strings.ToLower(text[tok.Start:tok.End]))
	}
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", sitesearch.NormalizeText("  a\n\n b\t\tc  "))
	assert.Equal(t, "café", sitesearch.NormalizeText("café"))
	assert.Empty(t, sitesearch.NormalizeText(" \n\t "))
}
