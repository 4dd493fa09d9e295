package mock

import (
	"context"

	"github.com/fwojciec/sitesearch"
)

var _ sitesearch.IndexService = (*IndexService)(nil)

// IndexService is a mock implementation of sitesearch.IndexService.
type IndexService struct {
	AddDocumentFn       func(ctx context.Context, doc *sitesearch.Document) error
	FindDocumentByURLFn func(ctx context.Context, url string) (*sitesearch.Document, error)
	CountDocumentsFn    func(ctx context.Context) (int, error)
	VocabularyFn        func(ctx context.Context) ([]string, error)
	TermsFn             func(ctx context.Context, prefix string) ([]string, error)
	ViewFn              func(ctx context.Context, fn func(r sitesearch.IndexReader) error) error
}

func (s *IndexService) AddDocument(ctx context.Context, doc *sitesearch.Document) error {
	return s.AddDocumentFn(ctx, doc)
}

func (s *IndexService) FindDocumentByURL(ctx context.Context, url string) (*sitesearch.Document, error) {
	return s.FindDocumentByURLFn(ctx, url)
}

func (s *IndexService) CountDocuments(ctx context.Context) (int, error) {
	return s.CountDocumentsFn(ctx)
}

func (s *IndexService) Vocabulary(ctx context.Context) ([]string, error) {
	return s.VocabularyFn(ctx)
}

func (s *IndexService) Terms(ctx context.Context, prefix string) ([]string, error) {
	return s.TermsFn(ctx, prefix)
}

func (s *IndexService) View(ctx context.Context, fn func(r sitesearch.IndexReader) error) error {
	return s.ViewFn(ctx, fn)
}

var _ sitesearch.IndexReader = (*IndexReader)(nil)

// IndexReader is a mock implementation of sitesearch.IndexReader.
type IndexReader struct {
	TermsFn            func(ctx context.Context, prefix string) ([]string, error)
	StatsFn            func(ctx context.Context) (*sitesearch.IndexStats, error)
	PostingsFn         func(ctx context.Context, term string) ([]sitesearch.Posting, error)
	FindDocumentByIDFn func(ctx context.Context, id int64) (*sitesearch.Document, error)
}

func (r *IndexReader) Terms(ctx context.Context, prefix string) ([]string, error) {
	return r.TermsFn(ctx, prefix)
}

func (r *IndexReader) Stats(ctx context.Context) (*sitesearch.IndexStats, error) {
	return r.StatsFn(ctx)
}

func (r *IndexReader) Postings(ctx context.Context, term string) ([]sitesearch.Posting, error) {
	return r.PostingsFn(ctx, term)
}

func (r *IndexReader) FindDocumentByID(ctx context.Context, id int64) (*sitesearch.Document, error) {
	return r.FindDocumentByIDFn(ctx, id)
}

var _ sitesearch.TermSource = (*TermSource)(nil)

// TermSource is a mock implementation of sitesearch.TermSource.
type TermSource struct {
	TermsFn func(ctx context.Context, prefix string) ([]string, error)
}

func (s *TermSource) Terms(ctx context.Context, prefix string) ([]string, error) {
	return s.TermsFn(ctx, prefix)
}
