package providers

import (
	"context"
	"errors"
	"time"
)

const defaultMaxRetries = 3

// retryBaseDelay is the first backoff step. Tests shorten it.
var retryBaseDelay = time.Second

// retryWithBackoff retries fn on rate limiting and transient server errors,
// doubling the delay each time.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := retryBaseDelay << uint(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}

func retryable(err error) bool {
	var rl *rateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var se *serverError
	return errors.As(err, &se) && se.statusCode == 503
}
