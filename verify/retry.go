package verify

import (
	"context"
	"time"

	"github.com/fwojciec/docsite"
)

// DefaultRetryDelays returns the backoff delays for page fetch retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// fetchWithRetry fetches url, retrying transient failures after each delay.
// A missing page is definitive and is not retried.
func fetchWithRetry(ctx context.Context, f docsite.Fetcher, url string, delays []time.Duration) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		body, err := f.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == len(delays) || docsite.ErrorCode(err) == docsite.ENOTFOUND {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
