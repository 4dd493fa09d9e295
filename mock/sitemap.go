package mock

import (
	"context"

	"github.com/fwojciec/sitesearch"
)

var _ sitesearch.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of sitesearch.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *sitesearch.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *sitesearch.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
