package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/sitesearch"
	main "github.com/fwojciec/sitesearch/cmd/sitesearch"
	"github.com/fwojciec/sitesearch/crawl"
	"github.com/fwojciec/sitesearch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCrawler returns a crawler over a two-page site whose index writes
// are recorded in added.
func newTestCrawler(added *[]string) *crawl.Crawler {
	pages := map[string]string{
		"https://example.test/docs/":      `<html><head><title>Docs</title></head><body><a href="/docs/guide">Guide</a><a href="/blog/">Blog</a></body></html>`,
		"https://example.test/docs/guide": `<html><head><title>Guide</title></head><body>Read me</body></html>`,
	}
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*sitesearch.FetchResult, error) {
				body, ok := pages[url]
				if !ok {
					return &sitesearch.FetchResult{URL: url, StatusCode: 404, ContentType: "text/html"}, nil
				}
				return &sitesearch.FetchResult{URL: url, StatusCode: 200, ContentType: "text/html", Body: body}, nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(html string) (*sitesearch.ExtractResult, error) {
				if html == pages["https://example.test/docs/"] {
					return &sitesearch.ExtractResult{Title: "Docs", Text: "Guide Blog"}, nil
				}
				return &sitesearch.ExtractResult{Title: "Guide", Text: "Read me"}, nil
			},
		},
		Links: &mock.LinkExtractor{
			ExtractLinksFn: func(html string) ([]string, error) {
				if html == pages["https://example.test/docs/"] {
					return []string{"/docs/guide", "/blog/"}, nil
				}
				return nil, nil
			},
		},
		Index: &mock.IndexService{
			AddDocumentFn: func(_ context.Context, doc *sitesearch.Document) error {
				*added = append(*added, doc.URL)
				return nil
			},
		},
		Concurrency: 1,
	}
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("crawls the site and records the run", func(t *testing.T) {
		t.Parallel()

		var added []string
		var created *sitesearch.Run
		var finished sitesearch.RunUpdate

		runs := &mock.RunService{
			CreateRunFn: func(_ context.Context, run *sitesearch.Run) error {
				run.ID = "run-1"
				created = run
				return nil
			},
			FinishRunFn: func(_ context.Context, id string, upd sitesearch.RunUpdate) (*sitesearch.Run, error) {
				assert.Equal(t, "run-1", id)
				finished = upd
				return &sitesearch.Run{ID: id}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Runs:    runs,
			Crawler: newTestCrawler(&added),
		}

		cmd := &main.CrawlCmd{URL: "https://example.test/docs/"}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, created)
		assert.Equal(t, "https://example.test/docs/", created.SeedURL)
		assert.ElementsMatch(t, []string{"https://example.test/docs/", "https://example.test/docs/guide"}, added)
		assert.Equal(t, 2, finished.Indexed)
		assert.Contains(t, stdout.String(), "Indexed 2 pages")
	})

	t.Run("applies exclude patterns", func(t *testing.T) {
		t.Parallel()

		var added []string
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Runs: &mock.RunService{
				CreateRunFn: func(_ context.Context, _ *sitesearch.Run) error { return nil },
				FinishRunFn: func(_ context.Context, _ string, _ sitesearch.RunUpdate) (*sitesearch.Run, error) {
					return &sitesearch.Run{}, nil
				},
			},
			Crawler: newTestCrawler(&added),
		}

		cmd := &main.CrawlCmd{URL: "https://example.test/docs/", Exclude: []string{"/guide$"}}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, []string{"https://example.test/docs/"}, added)
	})

	t.Run("rejects invalid filter pattern", func(t *testing.T) {
		t.Parallel()

		var added []string
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Runs:    &mock.RunService{},
			Crawler: newTestCrawler(&added),
		}

		cmd := &main.CrawlCmd{URL: "https://example.test/docs/", Filter: []string{"[invalid"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitesearch.EINVALID, sitesearch.ErrorCode(err))
		assert.Contains(t, stderr.String(), "invalid filter pattern")
		assert.Empty(t, added)
	})

	t.Run("reports run creation errors", func(t *testing.T) {
		t.Parallel()

		var added []string
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Runs: &mock.RunService{
				CreateRunFn: func(_ context.Context, _ *sitesearch.Run) error {
					return sitesearch.Errorf(sitesearch.EINTERNAL, "disk full")
				},
			},
			Crawler: newTestCrawler(&added),
		}

		err := (&main.CrawlCmd{URL: "https://example.test/docs/"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: disk full")
		assert.Empty(t, added)
	})

	t.Run("interrupted crawl is not recorded as finished", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var added []string
		finishCalled := false
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    ctx,
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Runs: &mock.RunService{
				CreateRunFn: func(_ context.Context, _ *sitesearch.Run) error { return nil },
				FinishRunFn: func(_ context.Context, _ string, _ sitesearch.RunUpdate) (*sitesearch.Run, error) {
					finishCalled = true
					return &sitesearch.Run{}, nil
				},
			},
			Crawler: newTestCrawler(&added),
		}

		err := (&main.CrawlCmd{URL: "https://example.test/docs/"}).Run(deps)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.False(t, finishCalled)
		assert.Contains(t, stderr.String(), "Crawl interrupted")
	})
}
