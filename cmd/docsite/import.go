package main

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/documenter"
	"github.com/fwojciec/docsite/goquery"
	"github.com/fwojciec/docsite/sqlite"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	u, err := url.Parse(c.URL)
	if err != nil || !u.IsAbs() {
		fmt.Fprintf(deps.Stderr, "error: invalid URL %q\n", c.URL)
		return docsite.Errorf(docsite.EINVALID, "invalid URL %q", c.URL)
	}

	siteURL, indexURL, err := c.locate(deps, u)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	body, err := deps.Fetcher.Fetch(deps.Ctx, indexURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: fetching search index: %s\n", docsite.ErrorMessage(err))
		return err
	}
	idx, err := documenter.ReadSearchIndex(strings.NewReader(body))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}
	for _, p := range idx.Check(deps.Config.Categories()) {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", p)
	}

	site, err := c.site(deps, siteURL, indexURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	hash, err := sqlite.HashIndex(idx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}
	if site.ContentHash == hash {
		fmt.Fprintf(deps.Stdout, "Site %q is up to date (%d records)\n", site.Name, site.RecordCount)
		return nil
	}

	if err := deps.Records.ReplaceRecords(deps.Ctx, site.ID, idx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d records into %q\n", len(idx.Docs), site.Name)
	return nil
}

// locate returns the site root and search index URLs. A URL to a script
// or JSON file is taken as the index itself; anything else must be a
// Documenter page that references it.
func (c *ImportCmd) locate(deps *Dependencies, u *url.URL) (siteURL, indexURL string, err error) {
	switch path.Ext(u.Path) {
	case ".js", ".json":
		root := u.ResolveReference(&url.URL{Path: "./"})
		return root.String(), u.String(), nil
	}

	html, err := deps.Fetcher.Fetch(deps.Ctx, u.String())
	if err != nil {
		return "", "", err
	}
	if g := deps.Detector.Detect(html); g != docsite.GeneratorDocumenter {
		name := string(g)
		if g == docsite.GeneratorUnknown {
			name = "an unknown generator"
		}
		return "", "", docsite.Errorf(docsite.EINVALID, "%s looks like %s, not a Documenter site", u, name)
	}
	assets, err := goquery.ExtractAssets(html, u.String())
	if err != nil {
		return "", "", err
	}
	return assets.SiteURL, assets.IndexURL, nil
}

// site returns the stored site to import into, creating it when needed.
func (c *ImportCmd) site(deps *Dependencies, siteURL, indexURL string) (*docsite.Site, error) {
	sites, err := deps.Sites.FindSites(deps.Ctx, docsite.SiteFilter{Name: &c.Name})
	if err != nil {
		return nil, err
	}
	if len(sites) > 0 {
		if !c.Force {
			return nil, docsite.Errorf(docsite.ECONFLICT, "site %q already exists. Use --force to replace its records", c.Name)
		}
		site := sites[0]
		if site.SourceURL == siteURL && site.IndexURL == indexURL {
			return site, nil
		}
		return deps.Sites.UpdateSite(deps.Ctx, site.ID, docsite.SiteUpdate{SourceURL: &siteURL, IndexURL: &indexURL})
	}

	site := &docsite.Site{Name: c.Name, SourceURL: siteURL, IndexURL: indexURL}
	if err := deps.Sites.CreateSite(deps.Ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}
