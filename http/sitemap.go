package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitesearch"
	"github.com/temoto/robotstxt"
)

// maxSitemapDepth bounds nested sitemap indexes.
const maxSitemapDepth = 5

// Ensure SitemapService implements sitesearch.SitemapService.
var _ sitesearch.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from a site's XML sitemaps.
type SitemapService struct {
	client *http.Client

	// UserAgent is sent with every request.
	UserAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, UserAgent: DefaultUserAgent}
}

// DiscoverURLs lists the pages of a site's sitemaps. Sitemaps come from
// robots.txt "Sitemap:" lines, falling back to /sitemap.xml. Sitemap indexes
// are followed recursively. Returns an empty slice if no sitemap exists.
//
// When baseURL has a non-root path (e.g., https://example.test/docs/),
// only URLs with paths under that prefix are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *sitesearch.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, sitesearch.Errorf(sitesearch.EINVALID, "invalid base URL %q", baseURL)
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.locateSitemaps(ctx, origin)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalker{svc: s, visited: make(map[string]bool)}
	for _, sm := range sitemaps {
		if err := w.walk(ctx, sm, 0); err != nil {
			return nil, err
		}
	}

	urls := []string{}
	seen := make(map[string]bool)
	for _, u := range w.urls {
		if seen[u] || !matchesPathPrefix(u, base.Path) || !filter.Match(u) {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls, nil
}

// locateSitemaps reads Sitemap: directives from robots.txt, falling back to
// /sitemap.xml when there are none.
func (s *SitemapService) locateSitemaps(ctx context.Context, origin *url.URL) ([]string, error) {
	robotsURL := origin.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if body, err := s.get(ctx, robotsURL); err == nil {
		data, err := robotstxt.FromBytes(body)
		if err == nil && len(data.Sitemaps) > 0 {
			return data.Sitemaps, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return []string{origin.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}, nil
}

// sitemapWalker collects page URLs across nested sitemaps.
type sitemapWalker struct {
	svc     *SitemapService
	visited map[string]bool
	urls    []string
}

func (w *sitemapWalker) walk(ctx context.Context, sitemapURL string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] || depth > maxSitemapDepth {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// A missing or broken sitemap only means fewer seeds.
		return nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil
	}
	root := doc.Root()
	if root == nil {
		return nil
	}

	if root.Tag == "sitemapindex" {
		for _, loc := range locs(root, "sitemap") {
			if err := w.walk(ctx, loc, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	w.urls = append(w.urls, locs(root, "url")...)
	return nil
}

// locs returns the trimmed <loc> text of every child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// get fetches a URL and returns its body, failing on non-200 responses.
func (s *SitemapService) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBodySize))
}

// matchesPathPrefix checks if a URL's path is under prefix, respecting path
// boundaries: /docs matches /docs/ and /docs/intro but not /documentation.
// An empty or "/" prefix matches everything.
func matchesPathPrefix(rawURL, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path, prefix) || parsed.Path == strings.TrimSuffix(prefix, "/")
}
