package sitesearch

import (
	"context"
	"regexp"
)

// SitemapService lists the pages a site announces in its sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs announced for the site at baseURL.
	// Sitemaps come from the robots.txt Sitemap lines, or /sitemap.xml when
	// robots.txt names none, and nested sitemap indexes are expanded.
	// Results outside baseURL's path or rejected by filter are dropped.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter narrows a crawl to part of the seed's site. It is applied to
// normalized URLs before they reach the frontier, so a rejected URL is never
// fetched. A nil filter accepts everything.
type URLFilter struct {
	// Include lists patterns of which a URL must match one. Empty means any.
	Include []*regexp.Regexp

	// Exclude lists patterns that reject a URL even when Include accepts it.
	Exclude []*regexp.Regexp
}

// Match reports whether url may be crawled.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !anyMatch(f.Include, url) {
		return false
	}
	return !anyMatch(f.Exclude, url)
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
