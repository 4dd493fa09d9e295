package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesearch"
)

// Ensure LoggingIndexService implements sitesearch.IndexService.
var _ sitesearch.IndexService = (*LoggingIndexService)(nil)

// LoggingIndexService wraps an IndexService, logging writes.
// Reads are delegated without logging.
type LoggingIndexService struct {
	next   sitesearch.IndexService
	logger *slog.Logger
}

// NewLoggingIndexService creates a new LoggingIndexService.
func NewLoggingIndexService(next sitesearch.IndexService, logger *slog.Logger) *LoggingIndexService {
	return &LoggingIndexService{next: next, logger: logger}
}

// AddDocument delegates to the wrapped service and logs the operation.
func (s *LoggingIndexService) AddDocument(ctx context.Context, doc *sitesearch.Document) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("index document",
			"url", doc.URL,
			"id", doc.ID,
			"chars", sitesearch.RuneLen(doc.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AddDocument(ctx, doc)
}

func (s *LoggingIndexService) FindDocumentByURL(ctx context.Context, url string) (*sitesearch.Document, error) {
	return s.next.FindDocumentByURL(ctx, url)
}

func (s *LoggingIndexService) CountDocuments(ctx context.Context) (int, error) {
	return s.next.CountDocuments(ctx)
}

func (s *LoggingIndexService) Vocabulary(ctx context.Context) ([]string, error) {
	return s.next.Vocabulary(ctx)
}

func (s *LoggingIndexService) Terms(ctx context.Context, prefix string) ([]string, error) {
	return s.next.Terms(ctx, prefix)
}

func (s *LoggingIndexService) View(ctx context.Context, fn func(r sitesearch.IndexReader) error) error {
	return s.next.View(ctx, fn)
}
