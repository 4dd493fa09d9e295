package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/sitesearch"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")

	results, err := deps.Searcher.Search(deps.Ctx, query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if results == nil {
			results = []*sitesearch.SearchResult{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", query)
		suggestions, err := deps.Suggester.Suggest(deps.Ctx, query)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
			return err
		}
		if len(suggestions) > 0 {
			fmt.Fprintf(deps.Stdout, "Did you mean: %s\n", strings.Join(suggestions, ", "))
		}
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "%d. %s (%.2f)\n", i+1, r.Title, r.NormalizedScore)
		fmt.Fprintf(deps.Stdout, "   %s\n", r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "   %s\n", r.Snippet)
		}
	}
	return nil
}
