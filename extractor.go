package sitesearch

// ErrNoTitle is returned by an Extractor when a page declares no title.
// Such pages are never indexed.
var ErrNoTitle = Errorf(EINVALID, "page has no title")

// ExtractResult holds the text extracted from an HTML page.
type ExtractResult struct {
	// Title is the text of the first <title> element, whitespace-collapsed.
	Title string

	// Text is all visible body text in document order, whitespace-collapsed.
	Text string
}

// Extractor reduces an HTML document to title and visible text.
type Extractor interface {
	// Extract returns ErrNoTitle when the page has no usable title.
	Extract(html string) (*ExtractResult, error)
}

// LinkExtractor lists the raw href values of anchors in an HTML page.
// Resolution and scoping are left to the caller.
type LinkExtractor interface {
	ExtractLinks(html string) ([]string, error)
}
