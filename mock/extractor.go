package mock

import "github.com/fwojciec/sitesearch"

var _ sitesearch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitesearch.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*sitesearch.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*sitesearch.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ sitesearch.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitesearch.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string) ([]string, error) {
	return e.ExtractLinksFn(html)
}
