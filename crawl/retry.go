package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/sitesearch"
)

var _ sitesearch.Fetcher = (*RetryFetcher)(nil)

// RetryDelays returns n exponential backoff delays starting at base.
func RetryDelays(n int, base time.Duration) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	for i := 0; i < n; i++ {
		delays = append(delays, base<<i)
	}
	return delays
}

// RetryFetcher retries transport failures of the wrapped Fetcher.
// Responses of any status are returned as they are; only errors with code
// EUNAVAILABLE are retried.
type RetryFetcher struct {
	Fetcher sitesearch.Fetcher

	// Delays holds the wait before each retry. Its length is the number of
	// retries after the first attempt.
	Delays []time.Duration

	// OnRetry, if set, is called before every retry.
	OnRetry func(url string, attempt int, err error)
}

// Fetch fetches url, retrying with backoff while the failure is transient.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (*sitesearch.FetchResult, error) {
	maxAttempts := len(f.Delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := f.Fetcher.Fetch(ctx, url)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if sitesearch.ErrorCode(err) != sitesearch.EUNAVAILABLE || attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if f.OnRetry != nil {
			f.OnRetry(url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.Delays[attempt]):
		}
	}

	return nil, lastErr
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.Fetcher.Close()
}
