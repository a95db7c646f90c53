package search

import (
	"context"
	"time"
)

// DefaultRetryDelays returns the backoff schedule for page fetches. Result pages
// often sit behind rate limiters or flaky CDNs that clear within seconds,
// so a short 1s/2s/4s ladder recovers most of them without stalling the
// whole search.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// fetchWithBackoff fetches a result URL through the configured Fetcher,
// retrying after each configured delay. The last fetch error is returned
// once the schedule is exhausted; context cancellation wins over both.
func (s *Searcher) fetchWithBackoff(ctx context.Context, url string) (string, error) {
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		html, err := s.Fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= len(delays) {
			return "", lastErr
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
}
