package main

import (
	"fmt"

	"github.com/fwojciec/docsite"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	site, err := findSite(deps, c.Name)
	if err != nil {
		return err
	}

	results, err := deps.Searcher.Search(deps.Ctx, c.Query, docsite.SearchOptions{
		SiteID:     site.ID,
		Categories: categories(c.Category),
		Limit:      c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	printResults(deps.Stdout, results)
	return nil
}
