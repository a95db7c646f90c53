package search_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nekyl/twob/mock"
	"github.com/nekyl/twob/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryingSearcher(delays []time.Duration, fetch func(ctx context.Context, url string) (string, error)) *search.Searcher {
	return &search.Searcher{
		Fetcher:     &mock.Fetcher{FetchFn: fetch},
		RetryDelays: delays,
	}
}

func TestSearcher_FetchWithBackoff(t *testing.T) {
	t.Parallel()

	noDelays := []time.Duration{0, 0, 0}

	t.Run("ReturnsPageOnFirstSuccess", func(t *testing.T) {
		t.Parallel()

		calls := 0
		s := retryingSearcher(noDelays, func(context.Context, string) (string, error) {
			calls++
			return "<html>ok</html>", nil
		})

		html, err := search.FetchWithBackoff(s, context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("RetriesUntilSuccess", func(t *testing.T) {
		t.Parallel()

		calls := 0
		s := retryingSearcher(noDelays, func(context.Context, string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})

		html, err := search.FetchWithBackoff(s, context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "ok", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("ReturnsLastErrorWhenScheduleExhausted", func(t *testing.T) {
		t.Parallel()

		calls := 0
		s := retryingSearcher(noDelays, func(context.Context, string) (string, error) {
			calls++
			return "", errors.New("permanent")
		})

		_, err := search.FetchWithBackoff(s, context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Equal(t, "permanent", err.Error())
		assert.Equal(t, 4, calls) // 1 initial + 3 retries
	})

	t.Run("StopsWhenContextCanceledBetweenAttempts", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		s := retryingSearcher([]time.Duration{time.Second}, func(context.Context, string) (string, error) {
			cancel()
			return "", errors.New("transient")
		})

		_, err := search.FetchWithBackoff(s, ctx, "https://example.com")

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDefaultRetryDelays(t *testing.T) {
	t.Parallel()

	delays := search.DefaultRetryDelays()
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, delays)
}
