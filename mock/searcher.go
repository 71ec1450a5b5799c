package mock

import (
	"context"

	"github.com/fwojciec/docsite"
)

var _ docsite.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of docsite.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, opts docsite.SearchOptions) ([]docsite.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string, opts docsite.SearchOptions) ([]docsite.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
