package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesearch"
	"github.com/fwojciec/sitesearch/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Index     sitesearch.IndexService
	Runs      sitesearch.RunService
	Crawler   *crawl.Crawler
	Searcher  sitesearch.Searcher
	Suggester sitesearch.Suggester
}

// logger returns the configured logger or one that discards everything.
func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Index       string  `short:"i" env:"SITESEARCH_INDEX" default:"sitesearch-index" help:"Index directory"`
	Dict        string  `short:"d" env:"SITESEARCH_DICT" help:"Word list used for suggestions, one word per line"`
	DictWeight  float64 `default:"1.0" help:"Suggestion weight of dictionary words"`
	VocabWeight float64 `default:"0.1" help:"Suggestion weight of indexed words"`
	Verbose     bool    `short:"v" help:"Log every fetch, index write and query"`

	Crawl   CrawlCmd   `cmd:"" help:"Crawl a website and build its index"`
	Search  SearchCmd  `cmd:"" help:"Search the index"`
	Suggest SuggestCmd `cmd:"" help:"Suggest corrections for the last word of a query"`
	Runs    RunsCmd    `cmd:"" help:"List crawl runs"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL         string        `arg:"" help:"Seed URL; only pages under its host and path are crawled"`
	Force       bool          `short:"f" help:"Replace an existing index"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent fetch limit"`
	RPS         float64       `name:"rps" default:"2" help:"Requests per second per host (0 disables the limit)"`
	Timeout     time.Duration `default:"10s" help:"Timeout for each request"`
	MaxPages    int           `default:"0" help:"Maximum pages to fetch (0 means no limit)"`
	Retries     int           `default:"0" help:"Retries of a request that fails in transport (0 moves on at once)"`
	RetryDelay  time.Duration `default:"500ms" help:"Wait before the first retry, doubled for each further retry"`
	UserAgent   string        `help:"User-Agent header sent with every request"`
	Robots      bool          `default:"true" negatable:"" help:"Honor robots.txt"`
	Sitemap     bool          `default:"true" negatable:"" help:"Seed the crawl from sitemaps"`
	Filter      []string      `short:"F" help:"Only crawl URLs matching regex (repeatable)"`
	Exclude     []string      `short:"x" help:"Skip URLs matching regex (repeatable)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query []string `arg:"" help:"Search query"`
	JSON  bool     `name:"json" help:"Print results as JSON"`
}

// SuggestCmd is the "suggest" subcommand.
type SuggestCmd struct {
	Query []string `arg:"" help:"Query whose last word is corrected"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int  `short:"n" default:"10" help:"Number of runs to show"`
	JSON  bool `name:"json" help:"Print runs as JSON"`
}
