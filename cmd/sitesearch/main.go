package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitesearch"
	"github.com/fwojciec/sitesearch/crawl"
	"github.com/fwojciec/sitesearch/fs"
	"github.com/fwojciec/sitesearch/goquery"
	sshttp "github.com/fwojciec/sitesearch/http"
	"github.com/fwojciec/sitesearch/search"
	ssslog "github.com/fwojciec/sitesearch/slog"
	"github.com/fwojciec/sitesearch/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database of the index being built or searched.
	DB *sqlite.DB

	// Index directory handle. Set while a command runs.
	Dir *fs.IndexDir
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		err := m.DB.Close()
		m.DB = nil
		return err
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitesearch"),
		kong.Description("Crawl a website into a local full-text index and search it."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitesearch --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	switch command(kongCtx) {
	case "crawl":
		return m.runCrawl(ctx, kongCtx, cli, deps)
	case "search", "suggest":
		if err := m.openIndex(cli, deps); err != nil {
			return err
		}
		defer m.Close()
		m.wireSearch(cli, deps)
	case "runs":
		if err := m.openIndex(cli, deps); err != nil {
			return err
		}
		defer m.Close()
	}

	return kongCtx.Run(deps)
}

// runCrawl builds a fresh index next to the current one and swaps it in
// only when the crawl completes.
func (m *Main) runCrawl(ctx context.Context, kongCtx *kong.Context, cli *CLI, deps *Dependencies) (err error) {
	dir, err := fs.CreateIndex(cli.Index, cli.Crawl.Force)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
		return err
	}
	m.Dir = dir
	defer func() {
		closeErr := m.Close()
		if err == nil {
			err = closeErr
		}
		if err == nil {
			err = dir.Commit()
			return
		}
		if abortErr := dir.Abort(); abortErr != nil {
			deps.Logger.Warn("discard partial index", "dir", dir.Dir(), "err", abortErr)
		}
	}()

	m.DB = sqlite.NewDB(dir.Path())
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open index database at %q: %w", dir.Path(), err)
	}

	runs := sqlite.NewRunService(m.DB)
	if prev, err := fs.OpenIndex(cli.Index); err == nil {
		if _, err := runs.ImportRuns(ctx, prev.Path()); err != nil {
			deps.Logger.Warn("run history not carried over", "index", prev.Dir(), "err", err)
		}
	}

	c := &cli.Crawl
	opts := []sshttp.Option{sshttp.WithTimeout(c.Timeout)}
	if c.UserAgent != "" {
		opts = append(opts, sshttp.WithUserAgent(c.UserAgent))
	}
	fetcher := sshttp.NewFetcher(opts...)
	defer fetcher.Close()

	var index sitesearch.IndexService = sqlite.NewIndexService(m.DB)
	var pages sitesearch.Fetcher = fetcher
	if cli.Verbose {
		index = ssslog.NewLoggingIndexService(index, deps.Logger)
		pages = ssslog.NewLoggingFetcher(pages, deps.Logger)
	}
	if c.Retries > 0 {
		pages = &crawl.RetryFetcher{
			Fetcher: pages,
			Delays:  crawl.RetryDelays(c.Retries, c.RetryDelay),
			OnRetry: func(url string, attempt int, err error) {
				deps.Logger.Debug("retry fetch", "url", url, "attempt", attempt, "err", err)
			},
		}
	}

	crawler := &crawl.Crawler{
		Fetcher:     pages,
		Extractor:   goquery.NewExtractor(),
		Links:       goquery.NewLinkExtractor(),
		Index:       index,
		RateLimiter: crawl.NewDomainLimiter(c.RPS),
		Concurrency: c.Concurrency,
		MaxPages:    c.MaxPages,
	}
	if c.Robots {
		crawler.Robots = sshttp.NewRobotsService(fetcher.Client(), fetcher.UserAgent())
	}
	if c.Sitemap {
		sitemaps := sshttp.NewSitemapService(fetcher.Client())
		sitemaps.UserAgent = fetcher.UserAgent()
		crawler.Sitemaps = sitemaps
		if cli.Verbose {
			crawler.Sitemaps = ssslog.NewLoggingSitemapService(sitemaps, deps.Logger)
		}
	}

	deps.Index = index
	deps.Runs = runs
	deps.Crawler = crawler

	return kongCtx.Run(deps)
}

// openIndex opens an existing index for reading.
func (m *Main) openIndex(cli *CLI, deps *Dependencies) error {
	dir, err := fs.OpenIndex(cli.Index)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Hint: run 'sitesearch crawl <url>' or set SITESEARCH_INDEX")
		return err
	}
	m.Dir = dir

	m.DB = sqlite.NewDB(dir.Path())
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open index database at %q: %w", dir.Path(), err)
	}

	deps.Index = sqlite.NewIndexService(m.DB)
	deps.Runs = sqlite.NewRunService(m.DB)
	return nil
}

// wireSearch builds the search engine and its corrector sources.
func (m *Main) wireSearch(cli *CLI, deps *Dependencies) {
	dict := sitesearch.NewDictionary(nil)
	if cli.Dict == "" {
		deps.Logger.Debug("no dictionary configured, suggestions use the index vocabulary only")
	} else if d, err := fs.LoadDictionary(cli.Dict); err != nil {
		deps.Logger.Warn("dictionary not loaded, suggestions use the index vocabulary only", "path", cli.Dict, "err", sitesearch.ErrorMessage(err))
	} else {
		dict = d
	}

	corrector := search.NewCorrector(
		search.Source{Name: "dictionary", Terms: dict, Weight: cli.DictWeight},
		search.Source{Name: "vocabulary", Terms: deps.Index, Weight: cli.VocabWeight},
	)
	corrector.OnSourceError = func(source string, err error) {
		deps.Logger.Warn("suggestion source failed", "source", source, "err", err)
	}

	engine := search.NewEngine(deps.Index, corrector)

	var s ssslog.SearchSuggester = engine
	if cli.Verbose {
		s = ssslog.NewLoggingSearcher(engine, deps.Logger)
	}
	deps.Searcher = s
	deps.Suggester = s
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// command returns the name of the selected subcommand.
func command(kongCtx *kong.Context) string {
	name, _, _ := strings.Cut(kongCtx.Command(), " ")
	return name
}
