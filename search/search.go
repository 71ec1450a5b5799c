// Package search implements in-memory querying over a search index
// snapshot, the way the documentation site's search page does in the
// browser.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/bloom"
)

// Ensure Index implements docsite.Searcher at compile time.
var _ docsite.Searcher = (*Index)(nil)

// MinPrefix is the shortest query term that matches token prefixes.
// Shorter terms must match a whole token.
const MinPrefix = 2

// Scores for a single query term, by where it matched.
const (
	scoreTitleExact  = 10
	scoreTitlePrefix = 6
	scoreTextExact   = 3
	scorePageMatch   = 2
	scoreTextPrefix  = 1
	scoreTitleWhole  = 20
)

// Index answers queries over one immutable snapshot. It is safe for
// concurrent use.
type Index struct {
	docs    []docsite.Record
	entries []entry
}

type entry struct {
	title  []string
	page   []string
	text   []string
	filter *bloom.Filter
}

// New builds an Index over the records of idx. The records are copied.
func New(idx *docsite.SearchIndex) *Index {
	docs := make([]docsite.Record, len(idx.Docs))
	copy(docs, idx.Docs)

	entries := make([]entry, len(docs))
	for i, rec := range docs {
		e := entry{
			title: docsite.Tokenize(rec.Title),
			page:  docsite.Tokenize(rec.Page),
			text:  docsite.Tokenize(rec.Text),
		}

		var n uint
		for _, toks := range [][]string{e.title, e.page, e.text} {
			for _, tok := range toks {
				n += bloom.PrefixCount(tok, MinPrefix) + 1
			}
		}
		e.filter = bloom.NewFilter(n, 0.01)
		for _, toks := range [][]string{e.title, e.page, e.text} {
			for _, tok := range toks {
				e.filter.Add(tok)
				e.filter.AddPrefixes(tok, MinPrefix)
			}
		}
		entries[i] = e
	}

	return &Index{docs: docs, entries: entries}
}

// Len returns the number of records in the index.
func (x *Index) Len() int { return len(x.docs) }

// Search returns the records matching every term of query, best first.
// Records with equal scores keep snapshot order. Returned records are
// copies of the stored ones, unchanged.
func (x *Index) Search(ctx context.Context, query string, opts docsite.SearchOptions) ([]docsite.SearchResult, error) {
	terms := docsite.Tokenize(query)
	if len(terms) == 0 {
		return nil, docsite.Errorf(docsite.EINVALID, "search query required")
	}
	whole := strings.ToLower(strings.TrimSpace(query))

	var cats docsite.CategorySet
	if len(opts.Categories) > 0 {
		cats = docsite.NewCategorySet(opts.Categories...)
	}

	var results []docsite.SearchResult
	for i, e := range x.entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec := x.docs[i]
		if cats != nil && !cats.Contains(rec.Category) {
			continue
		}

		score, ok := e.score(terms)
		if !ok {
			continue
		}
		if titleMatchesWhole(rec.Title, whole) {
			score += scoreTitleWhole
		}
		results = append(results, docsite.SearchResult{Record: rec, Position: i, Score: float32(score)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// score sums per-term scores; ok is false if some term matches nothing.
func (e *entry) score(terms []string) (int, bool) {
	total := 0
	for _, term := range terms {
		if !e.filter.Test(term) {
			return 0, false
		}
		s := 0
		switch matchTokens(e.title, term) {
		case matchExact:
			s += scoreTitleExact
		case matchPrefix:
			s += scoreTitlePrefix
		}
		switch matchTokens(e.text, term) {
		case matchExact:
			s += scoreTextExact
		case matchPrefix:
			s += scoreTextPrefix
		}
		if matchTokens(e.page, term) != matchNone {
			s += scorePageMatch
		}
		if s == 0 {
			return 0, false
		}
		total += s
	}
	return total, true
}

type match int

const (
	matchNone match = iota
	matchPrefix
	matchExact
)

func matchTokens(tokens []string, term string) match {
	best := matchNone
	for _, tok := range tokens {
		if tok == term {
			return matchExact
		}
		if len([]rune(term)) >= MinPrefix && strings.HasPrefix(tok, term) {
			best = matchPrefix
		}
	}
	return best
}

// titleMatchesWhole reports whether the query names the record itself:
// the full title or its last dotted component.
func titleMatchesWhole(title, query string) bool {
	t := strings.ToLower(title)
	if t == query {
		return true
	}
	if i := strings.LastIndex(t, "."); i >= 0 && i < len(t)-1 {
		return t[i+1:] == query
	}
	return false
}
