package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/sitesearch"
	"github.com/fwojciec/sitesearch/crawl"
	"github.com/fwojciec/sitesearch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryFetcher_Fetch(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	t.Run("returns result after transient failures", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		var retried []int
		f := &crawl.RetryFetcher{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*sitesearch.FetchResult, error) {
					attempts++
					if attempts < 3 {
						return nil, sitesearch.Errorf(sitesearch.EUNAVAILABLE, "connection reset")
					}
					return &sitesearch.FetchResult{URL: url, StatusCode: 200}, nil
				},
			},
			Delays: delays,
			OnRetry: func(_ string, attempt int, _ error) {
				retried = append(retried, attempt)
			},
		}

		result, err := f.Fetch(context.Background(), "https://example.test/")

		require.NoError(t, err)
		assert.Equal(t, 200, result.StatusCode)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, []int{2, 3}, retried)
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		f := &crawl.RetryFetcher{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (*sitesearch.FetchResult, error) {
					attempts++
					return nil, sitesearch.Errorf(sitesearch.EUNAVAILABLE, "timeout")
				},
			},
			Delays: delays,
		}

		_, err := f.Fetch(context.Background(), "https://example.test/")

		require.Error(t, err)
		assert.Equal(t, sitesearch.EUNAVAILABLE, sitesearch.ErrorCode(err))
		assert.Equal(t, 4, attempts)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		f := &crawl.RetryFetcher{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (*sitesearch.FetchResult, error) {
					attempts++
					return nil, sitesearch.Errorf(sitesearch.EINVALID, "bad URL")
				},
			},
			Delays: delays,
		}

		_, err := f.Fetch(context.Background(), "::")

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		f := &crawl.RetryFetcher{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (*sitesearch.FetchResult, error) {
					attempts++
					cancel()
					return nil, sitesearch.Errorf(sitesearch.EUNAVAILABLE, "timeout")
				},
			},
			Delays: []time.Duration{time.Hour},
		}

		_, err := f.Fetch(ctx, "https://example.test/")

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})
}

func TestRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond},
		crawl.RetryDelays(3, 100*time.Millisecond))
	assert.Empty(t, crawl.RetryDelays(0, time.Second))
}
