// Package goquery implements HTML parsing for the crawler using goquery and
// the golang.org/x/net/html node tree underneath it.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitesearch"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ sitesearch.Extractor = (*Extractor)(nil)

// hiddenElements hold text that is never rendered as page content.
var hiddenElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Meta:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Title:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Extractor reduces HTML pages to title and visible text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the first <title> and all visible text of the page.
// Both are NFC-normalized with whitespace runs collapsed to single spaces.
// A page without a non-blank title yields sitesearch.ErrNoTitle.
func (e *Extractor) Extract(htmlContent string) (*sitesearch.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, sitesearch.Errorf(sitesearch.EINVALID, "failed to parse HTML: %v", err)
	}

	title := sitesearch.NormalizeText(doc.Find("title").First().Text())
	if title == "" {
		return nil, sitesearch.ErrNoTitle
	}

	var parts []string
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}

	return &sitesearch.ExtractResult{
		Title: title,
		Text:  sitesearch.NormalizeText(strings.Join(parts, " ")),
	}, nil
}

// collectText appends visible text nodes under n in document order.
func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		*parts = append(*parts, n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if hiddenElements[n.DataAtom] {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
