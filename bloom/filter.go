// Package bloom provides probabilistic term sets used to skip search
// records that cannot match a query.
package bloom

import (
	"unicode/utf8"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a set of terms with no false negatives.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected terms
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a term to the filter.
func (f *Filter) Add(term string) {
	f.f.AddString(term)
}

// AddPrefixes adds every prefix of term that is at least min runes long,
// including term itself, so that Test answers prefix queries.
func (f *Filter) AddPrefixes(term string, min int) {
	n := 0
	for i := range term {
		if n >= min {
			f.f.AddString(term[:i])
		}
		n++
	}
	if n >= min {
		f.f.AddString(term)
	}
}

// PrefixCount returns how many entries AddPrefixes adds for term.
func PrefixCount(term string, min int) uint {
	n := utf8.RuneCountInString(term)
	if n < min {
		return 0
	}
	if min < 1 {
		min = 1
	}
	return uint(n - min + 1)
}

// Test returns true if the term might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(term string) bool {
	return f.f.TestString(term)
}
