// Package bloom tracks which result URLs a search has already claimed.
// Engines overlap heavily (a DuckDuckGo fallback to Google returns many of
// the same pages), so the pipeline asks once per URL and fetches only first
// occurrences.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// falsePositiveRate trades a rare skipped page for a small filter. A search
// handles tens of URLs, so collisions are effectively never hit.
const falsePositiveRate = 0.01

// SeenURLs records result URLs as they are claimed for fetching. It is not
// safe for concurrent use; the pipeline claims URLs from a single goroutine
// before fanning out.
type SeenURLs struct {
	f *bloom.BloomFilter
}

// NewSeenURLs returns a filter sized for the expected number of results in
// one search.
func NewSeenURLs(capacity uint) *SeenURLs {
	return &SeenURLs{f: bloom.NewWithEstimates(capacity, falsePositiveRate)}
}

// Visit marks the URL as seen and reports whether it had been seen before.
// A true result may rarely be a false positive; a false result is exact.
func (s *SeenURLs) Visit(url string) bool {
	return s.f.TestOrAddString(url)
}
