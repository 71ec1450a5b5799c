package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/documenter"
	"github.com/fwojciec/docsite/mathjax"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) (err error) {
	if c.Site != "" && c.Index != "" {
		fmt.Fprintf(deps.Stderr, "error: use either --site or --index\n")
		return docsite.Errorf(docsite.EINVALID, "use either --site or --index")
	}

	idx, err := c.index(deps)
	if err != nil {
		return err
	}

	store := deps.NewStore(c.Dir)
	defer func() {
		if err != nil {
			_ = store.Abort()
		}
	}()

	err = store.Save(deps.Ctx, docsite.LoaderConfigPath, func(w io.Writer) error {
		return mathjax.WriteScript(w, deps.Config.Loader, deps.Config.Macros)
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	if idx != nil {
		idx.Name = deps.Config.IndexName()
		err = store.Save(deps.Ctx, docsite.SearchIndexPath, func(w io.Writer) error {
			return documenter.WriteSearchIndex(w, idx)
		})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
			return err
		}
	}

	if err = store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s\n", docsite.LoaderConfigPath)
	if idx != nil {
		fmt.Fprintf(deps.Stdout, "Wrote %s (%d records)\n", docsite.SearchIndexPath, len(idx.Docs))
	}
	return nil
}

// index returns the snapshot to write, or nil when only the loader
// configuration is generated.
func (c *GenerateCmd) index(deps *Dependencies) (*docsite.SearchIndex, error) {
	switch {
	case c.Site != "":
		site, err := findSite(deps, c.Site)
		if err != nil {
			return nil, err
		}
		idx, err := deps.Records.FindRecords(deps.Ctx, site.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
			return nil, err
		}
		return idx, nil
	case c.Index != "":
		idx, err := readIndexFile(c.Index)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
			return nil, err
		}
		return idx, nil
	}
	return nil, nil
}
