package sitesearch

import (
	"context"
	"mime"
	"strings"
)

// FetchResult is the outcome of a completed HTTP exchange.
type FetchResult struct {
	// URL is the requested URL.
	URL string

	StatusCode  int
	ContentType string

	// Location is the absolute target of a redirect response.
	Location string

	// Body is only populated for indexable responses.
	Body string
}

// Indexable reports whether the response is a 2xx HTML page.
func (r *FetchResult) Indexable() bool {
	if r == nil || r.StatusCode < 200 || r.StatusCode > 299 {
		return false
	}
	return IsHTMLContentType(r.ContentType)
}

// IsHTMLContentType reports whether a Content-Type header names an HTML media type.
func IsHTMLContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch strings.ToLower(mediaType) {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}

// Fetcher retrieves pages over the network.
type Fetcher interface {
	// Fetch performs a GET for the URL.
	// A non-2xx status or non-HTML content type is not an error; it is
	// reported through the result. Transport failures return EUNAVAILABLE.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases resources held by the fetcher.
	Close() error
}
