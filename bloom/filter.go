// Package bloom provides a probabilistic "definitely unseen" check for crawl URLs.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a Bloom filter over URL strings. It is not safe for concurrent
// use; callers guard it with their own lock.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a URL.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// MaybeSeen returns true if the URL might have been added.
// A false result is certain.
func (f *Filter) MaybeSeen(url string) bool {
	return f.f.TestString(url)
}

// TestAndAdd reports whether the URL might have been added before, then adds it.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(url)
}
