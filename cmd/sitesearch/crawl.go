package main

import (
	"fmt"
	"regexp"

	"github.com/fwojciec/sitesearch"
	"github.com/fwojciec/sitesearch/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	// Compile filters to URLFilter (validates regex patterns early)
	filter, err := compileFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
		return err
	}
	deps.Crawler.Filter = filter

	run := &sitesearch.Run{SeedURL: c.URL}
	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
		return err
	}

	logger := deps.logger()
	progress := func(event crawl.Event) {
		switch event.Type {
		case crawl.EventIndexed:
			logger.Debug("crawl page indexed", "url", event.URL)
		case crawl.EventSkipped:
			logger.Debug("crawl page skipped", "url", event.URL, "status", event.Status, "reason", event.Reason)
		case crawl.EventFailed:
			logger.Warn("crawl page failed", "url", event.URL, "err", event.Error)
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
		return err
	}

	if err := deps.Ctx.Err(); err != nil {
		fmt.Fprintf(deps.Stderr, "Crawl interrupted, index not saved. %s\n", crawl.FormatResult(result))
		return err
	}

	if _, err := deps.Runs.FinishRun(deps.Ctx, run.ID, sitesearch.RunUpdate{
		Indexed: result.Indexed,
		Skipped: result.Skipped,
		Failed:  result.Failed,
	}); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, crawl.FormatResult(result))
	return nil
}

// compileFilter builds a URLFilter from include and exclude patterns.
// It returns nil when no patterns are given.
func compileFilter(include, exclude []string) (*sitesearch.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}

	filter := &sitesearch.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, sitesearch.Errorf(sitesearch.EINVALID, "invalid filter pattern %q: %v", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, sitesearch.Errorf(sitesearch.EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}
