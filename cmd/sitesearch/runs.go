package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/sitesearch"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, sitesearch.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if runs == nil {
			runs = []*sitesearch.Run{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No crawl runs found. Use 'sitesearch crawl' to build the index.")
		return nil
	}

	for _, r := range runs {
		finished := "unfinished"
		if r.FinishedAt != nil {
			finished = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  indexed=%d skipped=%d failed=%d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), finished, r.SeedURL,
			r.Indexed, r.Skipped, r.Failed)
	}
	return nil
}
