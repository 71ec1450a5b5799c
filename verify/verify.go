// Package verify checks that every search record of a site points at an
// existing page and anchor.
package verify

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/goquery"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages fetched at once.
const DefaultConcurrency = 4

// Checker resolves record locations against a site and reports the ones
// whose page or anchor does not exist. Each distinct page is fetched once.
type Checker struct {
	Fetcher     docsite.Fetcher
	RateLimiter docsite.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
}

// Report holds the outcome of a check.
type Report struct {
	Records  int
	Pages    int
	Problems []docsite.Problem
}

// ProgressEvent reports progress during a check.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting check progress.
type ProgressFunc func(event ProgressEvent)

// page is one distinct page referenced by the index.
type page struct {
	url     string
	host    string
	anchors map[string]bool
	err     error
}

// Check verifies every record of idx against the site rooted at siteURL.
// Problems are returned in record order. The error is non-nil only when the
// check itself could not run.
func (c *Checker) Check(ctx context.Context, siteURL string, idx *docsite.SearchIndex, progress ProgressFunc) (*Report, error) {
	base, err := url.Parse(siteURL)
	if err != nil || !base.IsAbs() {
		return nil, docsite.Errorf(docsite.EINVALID, "invalid site URL %q", siteURL)
	}

	report := &Report{Records: len(idx.Docs)}
	pageOf := make([]int, len(idx.Docs))
	anchorOf := make([]string, len(idx.Docs))
	byURL := make(map[string]int)
	var pages []*page

	for i := range idx.Docs {
		rec := &idx.Docs[i]
		u, err := rec.URL(base)
		if err != nil {
			pageOf[i] = -1
			report.Problems = append(report.Problems, docsite.Problem{Position: i, Location: rec.Location, Field: "location", Message: docsite.ErrorMessage(err)})
			continue
		}
		anchorOf[i] = u.Fragment
		u.Fragment = ""
		key := u.String()
		p, ok := byURL[key]
		if !ok {
			p = len(pages)
			byURL[key] = p
			pages = append(pages, &page{url: key, host: u.Host})
		}
		pageOf[i] = p
	}
	report.Pages = len(pages)

	if err := c.fetchPages(ctx, pages, progress); err != nil {
		return nil, err
	}

	for i := range idx.Docs {
		if pageOf[i] < 0 {
			continue
		}
		rec := &idx.Docs[i]
		p := pages[pageOf[i]]
		switch {
		case p.err != nil:
			report.Problems = append(report.Problems, docsite.Problem{Position: i, Location: rec.Location, Field: "page", Message: p.err.Error()})
		case anchorOf[i] != "" && !p.anchors[anchorOf[i]]:
			report.Problems = append(report.Problems, docsite.Problem{Position: i, Location: rec.Location, Field: "anchor", Message: strconv.Quote(anchorOf[i]) + " not found on " + p.url})
		}
	}

	sort.SliceStable(report.Problems, func(i, j int) bool {
		return report.Problems[i].Position < report.Problems[j].Position
	})
	return report, nil
}

func (c *Checker) fetchPages(ctx context.Context, pages []*page, progress ProgressFunc) error {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	total := len(pages)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan *page, len(pages))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, p := range pages {
			g.Go(func() error {
				c.fetchPage(gctx, p, delays)
				resultCh <- p
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	for p := range resultCh {
		n := int(completed.Add(1))
		if progress == nil {
			continue
		}
		if p.err != nil {
			progress(ProgressEvent{Type: ProgressFailed, Completed: n, Total: total, URL: p.url, Error: p.err})
		} else {
			progress(ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: p.url})
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return nil
}

func (c *Checker) fetchPage(ctx context.Context, p *page, delays []time.Duration) {
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, p.host); err != nil {
			p.err = err
			return
		}
	}

	html, err := fetchWithRetry(ctx, c.Fetcher, p.url, delays)
	if err != nil {
		p.err = err
		return
	}

	anchors, err := goquery.Anchors(html)
	if err != nil {
		p.err = err
		return
	}
	p.anchors = make(map[string]bool, len(anchors))
	for _, a := range anchors {
		p.anchors[a] = true
	}
}
