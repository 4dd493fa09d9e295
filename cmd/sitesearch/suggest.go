package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/sitesearch"
)

// Run executes the suggest command.
func (c *SuggestCmd) Run(deps *Dependencies) error {
	suggestions, err := deps.Suggester.Suggest(deps.Ctx, strings.Join(c.Query, " "))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesearch.ErrorMessage(err))
		return err
	}

	for _, s := range suggestions {
		fmt.Fprintln(deps.Stdout, s)
	}
	return nil
}
