package crawl

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fwojciec/sitesearch"
	"golang.org/x/sync/errgroup"
)

// visit holds what a worker learned about one URL.
type visit struct {
	url        string
	fetched    *sitesearch.FetchResult
	links      []string
	page       *sitesearch.ExtractResult
	extractErr error
	disallowed bool
	err        error
}

// walk drains the frontier with a bounded pool of fetch workers.
//
// The coordinator (this goroutine) is the only one that dispatches URLs and
// handles results, so frontier state changes, index writes and progress
// callbacks are serialized. Workers only fetch and parse. The frontier's Next
// dequeues and marks in flight in one step, so no URL is handed out twice.
func (c *Crawler) walk(ctx context.Context, normalizer *Normalizer, frontier sitesearch.URLFrontier, progress ProgressFunc) *Result {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	// Buffered so a worker never blocks on send.
	results := make(chan visit, concurrency)

	var g errgroup.Group
	g.SetLimit(concurrency)

	var result Result
	dispatched := 0 // URLs handed to workers
	pending := 0    // URLs currently being processed

	for {
		for pending < concurrency && ctx.Err() == nil && (c.MaxPages <= 0 || dispatched < c.MaxPages) {
			u, ok := frontier.Next()
			if !ok {
				break
			}
			dispatched++
			pending++
			g.Go(func() error {
				results <- c.visit(ctx, u)
				return nil
			})
		}

		// Frontier empty and nothing in flight, cap reached, or cancelled.
		if pending == 0 {
			break
		}

		v := <-results
		pending--
		c.handle(ctx, normalizer, frontier, v, &result, progress)
	}

	_ = g.Wait()
	return &result
}

// visit fetches a URL and, for indexable pages, extracts links and content.
func (c *Crawler) visit(ctx context.Context, rawURL string) visit {
	v := visit{url: rawURL}

	if c.Robots != nil && !c.Robots.Allowed(ctx, rawURL) {
		v.disallowed = true
		return v
	}

	if c.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			v.err = err
			return v
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			v.err = err
			return v
		}
	}

	fetched, err := c.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		v.err = err
		return v
	}
	if fetched == nil {
		v.err = sitesearch.Errorf(sitesearch.EINTERNAL, "fetcher returned no result for %s", rawURL)
		return v
	}
	v.fetched = fetched
	if !fetched.Indexable() {
		return v
	}

	if c.Links != nil {
		if links, err := c.Links.ExtractLinks(fetched.Body); err == nil {
			v.links = links
		}
	}
	v.page, v.extractErr = c.Extractor.Extract(fetched.Body)
	return v
}

// handle records the outcome of a visit. It runs on the coordinator only.
func (c *Crawler) handle(
	ctx context.Context,
	normalizer *Normalizer,
	frontier sitesearch.URLFrontier,
	v visit,
	result *Result,
	progress ProgressFunc,
) {
	emit := func(e Event) {
		if progress != nil {
			progress(e)
		}
	}

	switch {
	case v.err != nil:
		// Transport failure: not visited, eligible for a future run.
		frontier.MarkFailed(v.url)
		result.Failed++
		emit(Event{Type: EventFailed, URL: v.url, Error: v.err})
		return
	case v.disallowed:
		frontier.MarkVisited(v.url)
		result.Visited++
		result.Skipped++
		emit(Event{Type: EventSkipped, URL: v.url, Reason: "disallowed by robots.txt"})
		return
	case v.fetched.Location != "" && isRedirect(v.fetched.StatusCode):
		frontier.MarkVisited(v.url)
		result.Visited++
		result.Skipped++
		if u, ok := normalizer.Normalize(v.url, v.fetched.Location); ok && c.Filter.Match(u) {
			frontier.Offer(u)
		}
		emit(Event{
			Type:   EventSkipped,
			URL:    v.url,
			Status: v.fetched.StatusCode,
			Reason: fmt.Sprintf("redirect to %s", v.fetched.Location),
		})
		return
	case !v.fetched.Indexable():
		frontier.MarkVisited(v.url)
		result.Visited++
		result.Skipped++
		emit(Event{
			Type:   EventSkipped,
			URL:    v.url,
			Status: v.fetched.StatusCode,
			Reason: fmt.Sprintf("not indexable (status %d, content type %q)", v.fetched.StatusCode, v.fetched.ContentType),
		})
		return
	}

	frontier.MarkVisited(v.url)
	result.Visited++

	for _, href := range v.links {
		u, ok := normalizer.Normalize(v.url, href)
		if !ok || !c.Filter.Match(u) {
			continue
		}
		frontier.Offer(u)
	}

	if v.extractErr != nil {
		result.Skipped++
		emit(Event{Type: EventSkipped, URL: v.url, Status: v.fetched.StatusCode, Reason: "extraction failed", Error: v.extractErr})
		return
	}

	doc := &sitesearch.Document{
		URL:     v.url,
		Title:   v.page.Title,
		Content: v.page.Text,
	}
	if err := c.Index.AddDocument(ctx, doc); err != nil {
		result.Failed++
		emit(Event{Type: EventFailed, URL: v.url, Status: v.fetched.StatusCode, Error: fmt.Errorf("index: %w", err)})
		return
	}

	result.Indexed++
	result.Bytes += len(v.page.Text)
	emit(Event{Type: EventIndexed, URL: v.url, Status: v.fetched.StatusCode})
}

func isRedirect(status int) bool {
	return status >= 300 && status <= 399
}
