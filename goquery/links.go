package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitesearch"
)

var _ sitesearch.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor lists anchor hrefs using goquery.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the href of every anchor in document order.
// Values are trimmed and deduplicated; empty, fragment-only and non-HTTP
// hrefs (javascript:, mailto:, tel:, data:) are dropped. Resolution against
// the page URL is left to the caller.
func (e *LinkExtractor) ExtractLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitesearch.Errorf(sitesearch.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})

	return links, nil
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
