package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesearch"
)

// Ensure LoggingFetcher implements sitesearch.Fetcher.
var _ sitesearch.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   sitesearch.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitesearch.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs status, size and timing.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *sitesearch.FetchResult, err error) {
	defer func(begin time.Time) {
		var status, size int
		if res != nil {
			status, size = res.StatusCode, len(res.Body)
		}
		f.logger.Info("fetch",
			"url", url,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
