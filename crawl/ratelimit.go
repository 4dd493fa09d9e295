package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/sitesearch"
	"golang.org/x/time/rate"
)

var _ sitesearch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to each host with a token bucket per host.
// Requests to different hosts never wait on each other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host, with no bursting. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the host's bucket allows a request.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	domain = strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
