package main

import (
	"fmt"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/verify"
)

// Run executes the verify command.
func (c *VerifyCmd) Run(deps *Dependencies) error {
	site, err := findSite(deps, c.Name)
	if err != nil {
		return err
	}

	idx, err := deps.Records.FindRecords(deps.Ctx, site.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	checker := &verify.Checker{
		Fetcher:     deps.Fetcher,
		RateLimiter: verify.NewDomainLimiter(c.Rate),
		Concurrency: c.Concurrency,
	}
	report, err := checker.Check(deps.Ctx, site.SourceURL, idx, func(e verify.ProgressEvent) {
		if e.Type == verify.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "  [%d/%d] failed %s: %v\n", e.Completed, e.Total, e.URL, e.Error)
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsite.ErrorMessage(err))
		return err
	}

	for _, p := range report.Problems {
		fmt.Fprintln(deps.Stdout, p.String())
	}
	fmt.Fprintf(deps.Stdout, "Checked %d records on %d pages: %d problem(s)\n", report.Records, report.Pages, len(report.Problems))

	if len(report.Problems) > 0 {
		return docsite.Errorf(docsite.EINVALID, "%d broken record(s)", len(report.Problems))
	}
	return nil
}
