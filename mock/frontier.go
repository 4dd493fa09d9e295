package mock

import (
	"context"

	"github.com/fwojciec/sitesearch"
)

var _ sitesearch.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of sitesearch.URLFrontier.
type URLFrontier struct {
	OfferFn       func(url string) bool
	NextFn        func() (string, bool)
	MarkVisitedFn func(url string)
	MarkFailedFn  func(url string)
	VisitedFn     func(url string) bool
	LenFn         func() int
	InFlightFn    func() int
}

func (f *URLFrontier) Offer(url string) bool {
	return f.OfferFn(url)
}

func (f *URLFrontier) Next() (string, bool) {
	return f.NextFn()
}

func (f *URLFrontier) MarkVisited(url string) {
	f.MarkVisitedFn(url)
}

func (f *URLFrontier) MarkFailed(url string) {
	f.MarkFailedFn(url)
}

func (f *URLFrontier) Visited(url string) bool {
	return f.VisitedFn(url)
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) InFlight() int {
	return f.InFlightFn()
}

var _ sitesearch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sitesearch.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ sitesearch.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of sitesearch.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) bool {
	return p.AllowedFn(ctx, url)
}
