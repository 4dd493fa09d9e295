// Package crawl walks a single website and feeds its HTML pages to the index.
// It coordinates link normalization, deduplication, fetching, extraction
// and storage.
package crawl

import (
	"context"
	"net/url"
	"sync/atomic"

	"github.com/fwojciec/sitesearch"
)

// Frontier sizing for a single crawl run.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate of the pre-check.
	frontierFalsePositiveRate = 0.01
)

// DefaultConcurrency is the number of fetch workers used when Concurrency is unset.
const DefaultConcurrency = 4

// State is the lifecycle state of a Crawler.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Crawler walks every reachable page of the seed's host and indexes the
// HTML pages it finds. A Crawler performs one crawl.
type Crawler struct {
	Fetcher   sitesearch.Fetcher
	Extractor sitesearch.Extractor
	Links     sitesearch.LinkExtractor
	Index     sitesearch.IndexService

	// Optional collaborators.
	RateLimiter sitesearch.DomainLimiter
	Robots      sitesearch.RobotsPolicy
	Sitemaps    sitesearch.SitemapService
	Filter      *sitesearch.URLFilter

	// Concurrency is the number of fetch workers.
	Concurrency int

	// MaxPages caps the number of URLs fetched. Zero means no cap.
	MaxPages int

	state atomic.Int32
}

// Result holds the outcome of a crawl.
type Result struct {
	// Indexed pages were stored in the index.
	Indexed int
	// Skipped pages were fetched but not indexed.
	Skipped int
	// Failed pages hit a transport or storage error.
	Failed int
	// Visited counts URLs marked visited.
	Visited int
	// Bytes is the total extracted text length of indexed pages.
	Bytes int
}

// EventType indicates the outcome reported by an Event.
type EventType int

const (
	EventIndexed EventType = iota
	EventSkipped
	EventFailed
)

func (t EventType) String() string {
	switch t {
	case EventIndexed:
		return "indexed"
	case EventSkipped:
		return "skipped"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Event reports the outcome of one URL.
type Event struct {
	Type   EventType
	URL    string
	Status int
	Reason string
	Error  error
}

// ProgressFunc is a callback for reporting crawl progress.
// It is called from the coordinating goroutine only.
type ProgressFunc func(event Event)

// State returns the crawler's lifecycle state.
func (c *Crawler) State() State {
	return State(c.state.Load())
}

// Crawl visits every same-host page reachable from seed.
//
// Only an invalid seed or a second call produce an error. Failures while
// crawling are reported to progress and counted in the result.
func (c *Crawler) Crawl(ctx context.Context, seed string, progress ProgressFunc) (*Result, error) {
	normalizer, err := NewNormalizer(seed)
	if err != nil {
		return nil, err
	}
	start, ok := normalizer.Normalize(seed, seed)
	if !ok {
		return nil, sitesearch.Errorf(sitesearch.EINVALID, "invalid seed URL %q", seed)
	}

	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, sitesearch.Errorf(sitesearch.ECONFLICT, "crawler is %s", c.State())
	}
	defer c.state.Store(int32(StateDone))

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Offer(start)

	// Sitemap discovery is best effort; link following still covers the site.
	if c.Sitemaps != nil {
		base, _ := url.Parse(start)
		if urls, err := c.Sitemaps.DiscoverURLs(ctx, siteRoot(base).String(), c.Filter); err == nil {
			for _, u := range urls {
				if nu, ok := normalizer.Normalize(start, u); ok {
					frontier.Offer(nu)
				}
			}
		}
	}

	return c.walk(ctx, normalizer, frontier, progress), nil
}
