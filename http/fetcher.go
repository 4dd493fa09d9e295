// Package http provides the network side of the crawler: a page Fetcher,
// a robots.txt policy and sitemap discovery.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/sitesearch"
	"golang.org/x/net/html/charset"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultUserAgent    = "sitesearch-crawler/1.0 (+https://github.com/fwojciec/sitesearch)"
	DefaultMaxBodySize  = 10 << 20
)

// maxRedirects bounds same-host redirect chains followed by Client.
const maxRedirects = 10

// Ensure Fetcher implements sitesearch.Fetcher at compile time.
var _ sitesearch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with plain HTTP GET requests. It does not execute
// JavaScript. Page redirects are never followed: the 3xx is returned with its
// target in Location, so the crawler decides whether to visit it.
type Fetcher struct {
	client      *http.Client
	pages       *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
	transport   http.RoundTripper
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each request.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps how many bytes of a page body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout:       f.timeout,
		Transport:     f.transport,
		CheckRedirect: sameHostRedirect,
	}
	f.pages = &http.Client{
		Timeout:   f.timeout,
		Transport: f.transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return f
}

// UserAgent returns the User-Agent the fetcher identifies itself with.
func (f *Fetcher) UserAgent() string {
	return f.userAgent
}

// Client returns an HTTP client sharing the fetcher's transport and timeout.
// It follows redirects that stay on the same host, which suits robots.txt
// and sitemap requests.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Fetch performs a GET for url. Non-2xx and non-HTML responses are returned
// without a body. Transport failures are reported as EUNAVAILABLE.
// HTML bodies are decoded to UTF-8 using the declared or sniffed charset.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitesearch.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, sitesearch.Errorf(sitesearch.EINVALID, "invalid request URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.1")

	resp, err := f.pages.Do(req)
	if err != nil {
		return nil, sitesearch.Errorf(sitesearch.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	result := &sitesearch.FetchResult{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if loc, err := resp.Location(); err == nil {
		result.Location = loc.String()
	}
	if !result.Indexable() {
		return result, nil
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), result.ContentType)
	if err != nil {
		return nil, sitesearch.Errorf(sitesearch.EUNAVAILABLE, "decode %s: %v", url, err)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, sitesearch.Errorf(sitesearch.EUNAVAILABLE, "read %s: %v", url, err)
	}
	result.Body = string(b)

	return result, nil
}

// Close releases resources. For HTTP fetcher this only drops idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	f.pages.CloseIdleConnections()
	return nil
}

// sameHostRedirect follows redirects on the original host and hands any
// cross-host redirect back to the caller as the final response.
func sameHostRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if !strings.EqualFold(req.URL.Host, via[0].URL.Host) {
		return http.ErrUseLastResponse
	}
	return nil
}
