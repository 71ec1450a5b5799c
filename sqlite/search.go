package sqlite

import (
	"context"
	"sort"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/search"
)

// Compile-time interface verification.
var _ docsite.Searcher = (*SearchService)(nil)

// SearchService implements docsite.Searcher over stored sites. Candidate
// records are narrowed in SQL with LIKE and then ranked the same way the
// in-memory index ranks them.
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

type candidate struct {
	siteID   string
	siteName string
	position int
	record   docsite.Record
}

// Search returns stored records matching every term of query, best first.
// Ties keep site name order and then snapshot order. Case folding in the
// SQL pre-filter is ASCII-only.
func (s *SearchService) Search(ctx context.Context, query string, opts docsite.SearchOptions) ([]docsite.SearchResult, error) {
	terms := docsite.Tokenize(query)
	if len(terms) == 0 {
		return nil, docsite.Errorf(docsite.EINVALID, "search query required")
	}

	var q strings.Builder
	var args []any
	q.WriteString(`
		SELECT r.site_id, s.name, r.position, r.location, r.page, r.title, r.text, r.category
		FROM records r JOIN sites s ON s.id = r.site_id
		WHERE 1=1`)

	if opts.SiteID != "" {
		q.WriteString(" AND r.site_id = ?")
		args = append(args, opts.SiteID)
	}
	if len(opts.Categories) > 0 {
		cats := make([]string, len(opts.Categories))
		for i, c := range opts.Categories {
			cats[i] = string(c)
		}
		q.WriteString(" AND r.category " + inList(&args, cats))
	}
	// Terms are alphanumeric, so they carry no LIKE wildcards.
	for _, term := range terms {
		pattern := "%" + term + "%"
		q.WriteString(" AND (r.title LIKE ? OR r.text LIKE ? OR r.page LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	q.WriteString(" ORDER BY s.name, r.position")

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []candidate
	for rows.Next() {
		var c candidate
		var category string
		if err := rows.Scan(&c.siteID, &c.siteName, &c.position,
			&c.record.Location, &c.record.Page, &c.record.Title, &c.record.Text, &category); err != nil {
			return nil, err
		}
		c.record.Category = docsite.Category(category)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results, err := rank(ctx, query, candidates)
	if err != nil {
		return nil, err
	}

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// rank scores candidates with an in-memory index built per site and merges
// the per-site results.
func rank(ctx context.Context, query string, candidates []candidate) ([]docsite.SearchResult, error) {
	var results []docsite.SearchResult
	for start := 0; start < len(candidates); {
		end := start
		for end < len(candidates) && candidates[end].siteID == candidates[start].siteID {
			end++
		}
		group := candidates[start:end]

		idx := &docsite.SearchIndex{Docs: make([]docsite.Record, len(group))}
		for i, c := range group {
			idx.Docs[i] = c.record
		}
		matches, err := search.New(idx).Search(ctx, query, docsite.SearchOptions{})
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			c := group[m.Position]
			m.SiteID = c.siteID
			m.Position = c.position
			results = append(results, m)
		}
		start = end
	}

	// Per-site results arrive in site order; a stable sort keeps it for ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}
