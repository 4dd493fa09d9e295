// Package slog provides logging decorators for sitesearch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesearch"
)

// Ensure LoggingSitemapService implements sitesearch.SitemapService.
var _ sitesearch.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   sitesearch.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next sitesearch.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
// Failures are logged at warn level since the crawl continues without them.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *sitesearch.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "sitemap discovery",
			"base", baseURL,
			"filtered", filter != nil,
			"urls", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
