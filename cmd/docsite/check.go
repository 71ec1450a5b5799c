package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/documenter"
	"github.com/fwojciec/docsite/mathjax"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	idx, err := readIndexFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	problems := idx.Check(deps.Config.Categories())
	for _, p := range problems {
		fmt.Fprintln(deps.Stdout, p.String())
	}

	macroErrs := 0
	if err := deps.Config.Macros.Validate(); err != nil {
		fmt.Fprintf(deps.Stdout, "config macros: %s\n", docsite.ErrorMessage(err))
		macroErrs++
	}
	if c.Macros != "" {
		if err := checkMacroFile(c.Macros); err != nil {
			fmt.Fprintf(deps.Stdout, "%s: %s\n", c.Macros, docsite.ErrorMessage(err))
			macroErrs++
		}
	}

	if n := len(problems) + macroErrs; n > 0 {
		return docsite.Errorf(docsite.EINVALID, "%d problem(s) found", n)
	}
	fmt.Fprintf(deps.Stdout, "%d records OK\n", len(idx.Docs))
	return nil
}

func checkMacroFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := mathjax.ParseMacros(f)
	if err != nil {
		return err
	}
	return table.Validate()
}

// readIndexFile reads a search index in script or JSON form.
func readIndexFile(path string) (*docsite.SearchIndex, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, docsite.Errorf(docsite.ENOTFOUND, "file %q not found", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	return documenter.ReadSearchIndex(f)
}
