package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/sitesearch"
	main "github.com/fwojciec/sitesearch/cmd/sitesearch"
	"github.com/fwojciec/sitesearch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	results := []*sitesearch.SearchResult{
		{URL: "https://example.test/cats", Title: "Cats", NormalizedScore: 1, Snippet: "<b class=\"match term0\">Cats</b> are great"},
		{URL: "https://example.test/pets", Title: "Pets", NormalizedScore: 0},
	}

	t.Run("prints ranked results", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Searcher: &mock.Searcher{
				SearchFn: func(_ context.Context, query string) ([]*sitesearch.SearchResult, error) {
					gotQuery = query
					return results, nil
				},
			},
		}

		require.NoError(t, (&main.SearchCmd{Query: []string{"cat", "food"}}).Run(deps))

		assert.Equal(t, "cat food", gotQuery)
		out := stdout.String()
		assert.Contains(t, out, "1. Cats (1.00)")
		assert.Contains(t, out, "https://example.test/cats")
		assert.Contains(t, out, `<b class="match term0">Cats</b> are great`)
		assert.Contains(t, out, "2. Pets (0.00)")
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Searcher: &mock.Searcher{
				SearchFn: func(_ context.Context, _ string) ([]*sitesearch.SearchResult, error) {
					return results, nil
				},
			},
		}

		require.NoError(t, (&main.SearchCmd{Query: []string{"cat"}, JSON: true}).Run(deps))

		var got []map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "https://example.test/cats", got[0]["url"])
		assert.Equal(t, 1.0, got[0]["score"])
	})

	t.Run("suggests corrections when nothing matches", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Searcher: &mock.Searcher{
				SearchFn: func(_ context.Context, _ string) ([]*sitesearch.SearchResult, error) {
					return []*sitesearch.SearchResult{}, nil
				},
			},
			Suggester: &mock.Suggester{
				SuggestFn: func(_ context.Context, query string) ([]string, error) {
					assert.Equal(t, "the fast dg", query)
					return []string{"the fast dog", "the fast dig"}, nil
				},
			},
		}

		require.NoError(t, (&main.SearchCmd{Query: []string{"the", "fast", "dg"}}).Run(deps))

		out := stdout.String()
		assert.Contains(t, out, `No results for "the fast dg".`)
		assert.Contains(t, out, "Did you mean: the fast dog, the fast dig")
	})

	t.Run("reports search errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Searcher: &mock.Searcher{
				SearchFn: func(_ context.Context, _ string) ([]*sitesearch.SearchResult, error) {
					return nil, sitesearch.Errorf(sitesearch.EUNAVAILABLE, "index is busy")
				},
			},
		}

		err := (&main.SearchCmd{Query: []string{"cat"}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: index is busy\n", stderr.String())
	})
}

func TestSuggestCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints one suggestion per line", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Suggester: &mock.Suggester{
				SuggestFn: func(_ context.Context, query string) ([]string, error) {
					return []string{"the fast dig", "the fast dog"}, nil
				},
			},
		}

		require.NoError(t, (&main.SuggestCmd{Query: []string{"the fast dg"}}).Run(deps))

		assert.Equal(t, "the fast dig\nthe fast dog\n", stdout.String())
	})

	t.Run("reports errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Suggester: &mock.Suggester{
				SuggestFn: func(_ context.Context, _ string) ([]string, error) {
					return nil, context.Canceled
				},
			},
		}

		err := (&main.SuggestCmd{Query: []string{"dg"}}).Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, stderr.String(), "error: Internal error.")
	})
}
