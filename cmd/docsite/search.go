package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/search"
	docslog "github.com/fwojciec/docsite/slog"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	idx, err := readIndexFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	searcher := docslog.NewLoggingSearcher(search.New(idx), deps.Logger)
	results, err := searcher.Search(deps.Ctx, c.Query, docsite.SearchOptions{
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

func categories(names []string) []docsite.Category {
	if len(names) == 0 {
		return nil
	}
	cats := make([]docsite.Category, len(names))
	for i, n := range names {
		cats[i] = docsite.Category(n)
	}
	return cats
}

// printResults writes one line per result.
func printResults(w io.Writer, results []docsite.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "%d  [%s]  %s  %s\n", r.Position, r.Record.Category, r.Record.Title, r.Record.Location)
	}
}
