package verify_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/mock"
	"github.com/fwojciec/docsite/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homePage = `<html><body>
<h1 id="MatrixPolynomials.jl-1">MatrixPolynomials.jl</h1>
<section id="MatrixPolynomials.NewtonPolynomial"></section>
</body></html>`

func sampleIndex() *docsite.SearchIndex {
	return &docsite.SearchIndex{
		Name: docsite.DefaultIndexName,
		Docs: []docsite.Record{
			{Location: "#MatrixPolynomials.jl-1", Page: "Home", Title: "MatrixPolynomials.jl", Category: docsite.CategorySection},
			{Location: "#", Page: "Home", Title: "Home", Category: docsite.CategoryPage},
			{Location: "#MatrixPolynomials.NewtonPolynomial", Page: "Home", Title: "MatrixPolynomials.NewtonPolynomial", Category: docsite.CategoryType},
		},
	}
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	t.Run("fetches each page once and reports no problems", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				calls.Add(1)
				assert.Equal(t, "https://example.com/docs/", url)
				return homePage, nil
			},
		}
		c := &verify.Checker{Fetcher: fetcher}

		report, err := c.Check(context.Background(), "https://example.com/docs/", sampleIndex(), nil)

		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 3, report.Records)
		assert.Equal(t, 1, report.Pages)
		assert.Empty(t, report.Problems)
	})

	t.Run("reports missing anchors", func(t *testing.T) {
		t.Parallel()

		idx := sampleIndex()
		idx.Docs = append(idx.Docs, docsite.Record{Location: "#Gone-1", Page: "Home", Title: "Gone", Category: docsite.CategorySection})
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return homePage, nil },
		}
		c := &verify.Checker{Fetcher: fetcher}

		report, err := c.Check(context.Background(), "https://example.com/docs/", idx, nil)

		require.NoError(t, err)
		require.Len(t, report.Problems, 1)
		assert.Equal(t, 3, report.Problems[0].Position)
		assert.Equal(t, "anchor", report.Problems[0].Field)
		assert.Contains(t, report.Problems[0].Message, `"Gone-1"`)
	})

	t.Run("reports missing pages in record order", func(t *testing.T) {
		t.Parallel()

		idx := &docsite.SearchIndex{Docs: []docsite.Record{
			{Location: "man/missing/#A-1", Page: "Missing", Title: "A", Category: docsite.CategorySection},
			{Location: "#", Page: "Home", Title: "Home", Category: docsite.CategoryPage},
			{Location: "man/missing/#B-1", Page: "Missing", Title: "B", Category: docsite.CategorySection},
		}}
		var mu sync.Mutex
		fetched := map[string]int{}
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				mu.Lock()
				fetched[url]++
				mu.Unlock()
				if url == "https://example.com/docs/man/missing/" {
					return "", docsite.Errorf(docsite.ENOTFOUND, "page not found: %s", url)
				}
				return homePage, nil
			},
		}
		c := &verify.Checker{Fetcher: fetcher, RetryDelays: []time.Duration{time.Millisecond}}

		report, err := c.Check(context.Background(), "https://example.com/docs/", idx, nil)

		require.NoError(t, err)
		require.Len(t, report.Problems, 2)
		assert.Equal(t, 0, report.Problems[0].Position)
		assert.Equal(t, "page", report.Problems[0].Field)
		assert.Equal(t, 2, report.Problems[1].Position)
		// A missing page is not retried.
		assert.Equal(t, 1, fetched["https://example.com/docs/man/missing/"])
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				if calls.Add(1) == 1 {
					return "", errors.New("connection reset")
				}
				return homePage, nil
			},
		}
		c := &verify.Checker{Fetcher: fetcher, RetryDelays: []time.Duration{time.Millisecond}}

		report, err := c.Check(context.Background(), "https://example.com/docs/", sampleIndex(), nil)

		require.NoError(t, err)
		assert.Empty(t, report.Problems)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("waits on rate limiter per host", func(t *testing.T) {
		t.Parallel()

		var domains []string
		var mu sync.Mutex
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				mu.Lock()
				domains = append(domains, domain)
				mu.Unlock()
				return nil
			},
		}
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return homePage, nil },
		}
		c := &verify.Checker{Fetcher: fetcher, RateLimiter: limiter}

		_, err := c.Check(context.Background(), "https://example.com/docs/", sampleIndex(), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"example.com"}, domains)
	})

	t.Run("paces subdomains of one site together", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return homePage, nil },
		}
		limiter := verify.NewDomainLimiter(100)
		require.NoError(t, limiter.Wait(context.Background(), "www.example.com"))
		c := &verify.Checker{Fetcher: fetcher, RateLimiter: limiter}

		_, err := c.Check(context.Background(), "https://docs.example.com/stable/", sampleIndex(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, limiter.Buckets())
	})

	t.Run("emits progress events", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return homePage, nil },
		}
		c := &verify.Checker{Fetcher: fetcher}

		var types []verify.ProgressType
		_, err := c.Check(context.Background(), "https://example.com/docs/", sampleIndex(), func(e verify.ProgressEvent) {
			types = append(types, e.Type)
		})

		require.NoError(t, err)
		assert.Equal(t, []verify.ProgressType{verify.ProgressStarted, verify.ProgressCompleted, verify.ProgressFinished}, types)
	})

	t.Run("rejects relative site URL", func(t *testing.T) {
		t.Parallel()

		c := &verify.Checker{Fetcher: &mock.Fetcher{}}

		_, err := c.Check(context.Background(), "docs/", sampleIndex(), nil)

		assert.Equal(t, docsite.EINVALID, docsite.ErrorCode(err))
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, _ string) (string, error) {
				cancel()
				return "", ctx.Err()
			},
		}
		c := &verify.Checker{Fetcher: fetcher, RetryDelays: []time.Duration{time.Second}}

		_, err := c.Check(ctx, "https://example.com/docs/", sampleIndex(), nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
