package main

import (
	"fmt"

	"github.com/fwojciec/docsite"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return docsite.Errorf(docsite.EINVALID, "use --force to confirm deletion")
	}

	site, err := findSite(deps, c.Name)
	if err != nil {
		return err
	}

	if err := deps.Sites.DeleteSite(deps.Ctx, site.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted site %q\n", site.Name)
	return nil
}

// findSite looks up a site by name, reporting a missing site on stderr.
func findSite(deps *Dependencies, name string) (*docsite.Site, error) {
	sites, err := deps.Sites.FindSites(deps.Ctx, docsite.SiteFilter{Name: &name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return nil, err
	}

	if len(sites) == 0 {
		fmt.Fprintf(deps.Stderr, "error: site %q not found. Use 'docsite list' to see available sites.\n", name)
		return nil, docsite.Errorf(docsite.ENOTFOUND, "site %q not found", name)
	}
	return sites[0], nil
}
