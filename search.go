package docsite

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Category classifies a search record. The search page only knows how to
// present a closed set of categories.
type Category string

// Categories emitted by the documentation generator.
const (
	CategorySection       Category = "section"
	CategoryPage          Category = "page"
	CategoryModule        Category = "module"
	CategoryFunction      Category = "function"
	CategoryMethod        Category = "method"
	CategoryMacro         Category = "macro"
	CategoryType          Category = "type"
	CategoryAbstractType  Category = "abstract type"
	CategoryPrimitiveType Category = "primitive type"
	CategoryConstant      Category = "constant"
	CategoryKeyword       Category = "keyword"
)

// CategorySet is a set of recognized categories.
type CategorySet map[Category]struct{}

// DefaultCategories returns the categories the documentation generator
// is known to emit.
func DefaultCategories() CategorySet {
	return NewCategorySet(
		CategorySection, CategoryPage, CategoryModule, CategoryFunction,
		CategoryMethod, CategoryMacro, CategoryType, CategoryAbstractType,
		CategoryPrimitiveType, CategoryConstant, CategoryKeyword,
	)
}

// NewCategorySet returns a set holding the given categories.
func NewCategorySet(cats ...Category) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports whether c is in the set.
func (s CategorySet) Contains(c Category) bool {
	_, ok := s[c]
	return ok
}

// Add extends the set.
func (s CategorySet) Add(cats ...Category) {
	for _, c := range cats {
		s[c] = struct{}{}
	}
}

// Sorted returns the categories in sorted order.
func (s CategorySet) Sorted() []Category {
	cats := make([]Category, 0, len(s))
	for c := range s {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Record is a single entry of the search index.
type Record struct {
	Location string   `json:"location"`
	Page     string   `json:"page"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Anchor returns the fragment part of the location, without the '#'.
func (r *Record) Anchor() string {
	_, frag, _ := strings.Cut(r.Location, "#")
	return frag
}

// PagePath returns the location with its fragment removed.
func (r *Record) PagePath() string {
	path, _, _ := strings.Cut(r.Location, "#")
	return path
}

// URL resolves the record location against the site root.
func (r *Record) URL(base *url.URL) (*url.URL, error) {
	ref, err := url.Parse(r.Location)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid location %q", r.Location)
	}
	return base.ResolveReference(ref), nil
}

// SearchIndex is an immutable snapshot of search records in generation order.
type SearchIndex struct {
	// Name is the variable the snapshot is assigned to in its script form.
	Name string   `json:"-"`
	Docs []Record `json:"docs"`
}

// DefaultIndexName is the variable name the search page reads.
const DefaultIndexName = "documenterSearchIndex"

// Problem describes a data-integrity defect found in generated artifacts.
type Problem struct {
	// Position is the record's index in the snapshot, or -1.
	Position int    `json:"position"`
	Location string `json:"location,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

// String formats the problem for display.
func (p Problem) String() string {
	var b strings.Builder
	if p.Position >= 0 {
		b.WriteString("record ")
		b.WriteString(strconv.Itoa(p.Position))
		if p.Location != "" {
			b.WriteString(" (")
			b.WriteString(p.Location)
			b.WriteString(")")
		}
		b.WriteString(": ")
	}
	if p.Field != "" {
		b.WriteString(p.Field)
		b.WriteString(": ")
	}
	b.WriteString(p.Message)
	return b.String()
}

// Check returns every problem with the snapshot: empty required fields,
// categories outside the recognized set, and locations claimed by more
// than one record. A nil set means DefaultCategories.
func (idx *SearchIndex) Check(categories CategorySet) []Problem {
	if categories == nil {
		categories = DefaultCategories()
	}

	var problems []Problem
	first := make(map[string]int, len(idx.Docs))
	for i, rec := range idx.Docs {
		for _, f := range []struct {
			name, value string
		}{
			{"location", rec.Location},
			{"page", rec.Page},
			{"title", rec.Title},
			{"category", string(rec.Category)},
		} {
			if f.value == "" {
				problems = append(problems, Problem{Position: i, Location: rec.Location, Field: f.name, Message: "must not be empty"})
			}
		}

		if rec.Category != "" && !categories.Contains(rec.Category) {
			problems = append(problems, Problem{Position: i, Location: rec.Location, Field: "category", Message: "unrecognized category " + strconv.Quote(string(rec.Category))})
		}

		if rec.Location == "" {
			continue
		}
		if j, ok := first[rec.Location]; ok {
			problems = append(problems, Problem{Position: i, Location: rec.Location, Field: "location", Message: "duplicates record " + strconv.Itoa(j)})
			continue
		}
		first[rec.Location] = i
	}
	return problems
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// SiteID restricts stored searches to one site.
	SiteID string `json:"siteId,omitempty"`

	// Categories restricts results to the given categories.
	Categories []Category `json:"categories,omitempty"`

	// Maximum number of results to return
	Limit int `json:"limit,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	SiteID   string  `json:"siteId,omitempty"`
	Record   Record  `json:"record"`
	Position int     `json:"position"`
	Score    float32 `json:"score"`
}

// Searcher answers queries over search records.
type Searcher interface {
	// Search returns records matching query ordered by relevance, ties
	// broken by snapshot order.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// Tokenize lowercases s and splits it on anything that is not a letter or
// digit, so "MatrixPolynomials.NewtonPolynomial" yields
// ["matrixpolynomials", "newtonpolynomial"].
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
