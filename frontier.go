package sitesearch

import "context"

// URLFrontier is a deduplicating crawl queue that also tracks each URL's
// visit state for one crawl run.
type URLFrontier interface {
	// Offer queues a URL.
	// Returns false if the URL is already queued, in flight, visited or failed.
	Offer(url string) bool

	// Next dequeues a URL and marks it in flight in one step.
	// Returns false if nothing is queued.
	Next() (string, bool)

	// MarkVisited records that an in-flight URL was fetched or terminally rejected.
	MarkVisited(url string)

	// MarkFailed records a transport failure for an in-flight URL.
	// The URL is not visited and is not queued again in this run.
	MarkFailed(url string)

	// Visited returns true if the URL has been marked visited.
	Visited(url string) bool

	// Len returns the number of queued URLs.
	Len() int

	// InFlight returns the number of dequeued URLs awaiting an outcome.
	InFlight() int
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// RobotsPolicy decides whether a crawler may fetch a URL.
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}
